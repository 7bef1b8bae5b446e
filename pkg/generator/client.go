package generator

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// NewClient は API キーで認証する Gemini API クライアントを作成します。
// baseURL が空なら SDK の既定エンドポイントを使います。
func NewClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (ContentGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini クライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}
