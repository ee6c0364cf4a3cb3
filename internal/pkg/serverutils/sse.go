package serverutils

import (
	"encoding/json"
	"fmt"
)

// SSE event names used by the streaming context endpoint.
const (
	SSEEventMetadata        = "metadata"
	SSEEventContextChunk    = "context_chunk"
	SSEEventContextComplete = "context_complete"
	SSEEventError           = "error"
)

// FormatSSE renders one server-sent event with a JSON data payload.
func FormatSSE(event string, data interface{}) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload), nil
}
