package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-recall-be/pkg/llm"
)

const chatCompletionsEndpoint = "https://api.openai.com/v1/chat/completions"

type OpenAIProvider struct {
	apiKey    string
	modelName string
	client    *http.Client
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (p *OpenAIProvider) buildMessages(prompt, systemInstruction string) []chatMessage {
	var messages []chatMessage
	if systemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemInstruction})
	}
	return append(messages, chatMessage{Role: "user", Content: prompt})
}

func (p *OpenAIProvider) doRequest(ctx context.Context, payload chatRequest) (*http.Response, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &llm.Error{Message: "failed to marshal chat request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsEndpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, &llm.Error{Message: "failed to create chat request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, &llm.Error{Message: fmt.Sprintf("chat request failed: %v", err), Err: err}
	}

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, &llm.Error{Message: fmt.Sprintf("chat API error, code %d, body %s", res.StatusCode, string(body))}
	}

	return res, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt, systemInstruction string) (string, error) {
	res, err := p.doRequest(ctx, chatRequest{
		Model:    p.modelName,
		Messages: p.buildMessages(prompt, systemInstruction),
	})
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &llm.Error{Message: "failed reading chat response", Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return "", &llm.Error{Message: "malformed chat response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.Error{Message: "chat response contains no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, prompt, systemInstruction string, onDelta func(string) error) (string, error) {
	res, err := p.doRequest(ctx, chatRequest{
		Model:    p.modelName,
		Messages: p.buildMessages(prompt, systemInstruction),
		Stream:   true,
	})
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var full strings.Builder

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return full.String(), &llm.Error{Message: "malformed stream chunk", Err: err}
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return full.String(), err
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), &llm.Error{Message: "stream read failed", Err: err}
	}

	return full.String(), nil
}
