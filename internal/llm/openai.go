package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const maxCompletionTokens = 4000

type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	EmbedModel string
}

func NewOpenAIClient(baseURL, chatModel, embedModel string) *OpenAIClient {
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		ChatModel:  chatModel,
		EmbedModel: embedModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Generate(system, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxCompletionTokens: maxCompletionTokens,
	}
	var res chatResponse
	if err := c.post("/chat/completions", reqBody, &res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return res.Choices[0].Message.Content, nil
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *OpenAIClient) Embed(text string) (*EmbeddingResult, error) {
	// Embedding models behave better on single-line input.
	text = strings.ReplaceAll(text, "\n", " ")
	reqBody := embeddingRequest{
		Input: text,
		Model: c.EmbedModel,
	}
	var res embeddingResponse
	if err := c.post("/embeddings", reqBody, &res); err != nil {
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return &EmbeddingResult{
		Embedding: res.Data[0].Embedding,
		Model:     c.EmbedModel,
	}, nil
}

func (c *OpenAIClient) post(path string, reqBody, out interface{}) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s", string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
