package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend calls the Gemini generateContent REST endpoint. Any
// problem on this path (transport, quota, malformed body) comes back as
// an error; the caller decides whether to fall back.
type GeminiBackend struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGeminiBackend returns nil when no API key is configured, which the
// insight service treats as "generative path disabled".
func NewGeminiBackend(apiKey, model string) *GeminiBackend {
	if apiKey == "" {
		return nil
	}
	return &GeminiBackend{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response error: %w", err)
	}

	var out geminiResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		bodyPreview := string(respBytes)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return "", fmt.Errorf("decode gemini response error: %v | body: %s", err, bodyPreview)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty completion from gemini")
	}
	return text, nil
}
