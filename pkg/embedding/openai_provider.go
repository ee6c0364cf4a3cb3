package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openAIEmbeddingEndpoint = "https://api.openai.com/v1/embeddings"

type OpenAIProvider struct {
	apiKey    string
	modelName string
	dimension int
	client    *http.Client
}

func NewOpenAIProvider(apiKey, modelName string, dimension int) EmbeddingProvider {
	return &OpenAIProvider{
		apiKey:    apiKey,
		modelName: modelName,
		dimension: dimension,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type openAIEmbeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	payload := openAIEmbeddingRequest{
		Model:      p.modelName,
		Input:      text,
		Dimensions: p.dimension,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Message: "failed to marshal embedding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEmbeddingEndpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, &Error{Message: "failed to create embedding request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("embedding request failed: %v", err), Err: err}
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Message: "failed reading embedding response", Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("embedding API error, code %d, body %s", res.StatusCode, string(resBytes))}
	}

	var parsed openAIEmbeddingResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return nil, &Error{Message: "malformed embedding response", Err: err}
	}
	if len(parsed.Data) == 0 {
		return nil, &Error{Message: "embedding response contains no data"}
	}

	return parsed.Data[0].Embedding, nil
}
