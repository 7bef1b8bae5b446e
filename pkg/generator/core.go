package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

const (
	retryInitialInterval = 200 * time.Millisecond
	retryMaxInterval     = 2 * time.Second
	// maxRetries は一時的な通信エラーに対する再試行の上限です。
	maxRetries = 1
)

// GeminiCore は Gemini API 呼び出しの共通処理 (再試行とエラー変換) を担う基盤クラスです。
type GeminiCore struct {
	aiClient   ContentGenerator
	maxRetries int
}

// NewGeminiCore は依存関係を注入して GeminiCore を初期化します。
func NewGeminiCore(aiClient ContentGenerator, retries int) (*GeminiCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if retries < 0 {
		retries = 0
	}
	if retries > maxRetries {
		retries = maxRetries
	}
	return &GeminiCore{aiClient: aiClient, maxRetries: retries}, nil
}

// generateContent は generateContent を呼び出し、失敗を *domain.Error に変換します。
func (c *GeminiCore) generateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = c.aiClient.GenerateContent(ctx, model, contents, config)
		return err
	})
	if err != nil {
		return nil, mapProviderError(ctx, model, err)
	}
	return resp, nil
}

// generateImages は専用の画像生成エンドポイントを呼び出します。
func (c *GeminiCore) generateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	var resp *genai.GenerateImagesResponse
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = c.aiClient.GenerateImages(ctx, model, prompt, config)
		return err
	})
	if err != nil {
		return nil, mapProviderError(ctx, model, err)
	}
	return resp, nil
}

// withRetry は一時的な通信エラーに限り op を再実行します。
// API エラーやコンテキストの終了は即座に返します。
func (c *GeminiCore) withRetry(ctx context.Context, op func() error) error {
	if c.maxRetries == 0 {
		return op()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		log.WithError(err).WithField("attempt", attempt).Warn("Gemini への通信が一時的に失敗しました")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx))
}

// asAPIError は err から genai.APIError を取り出します。
func asAPIError(err error) (*genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr, true
	}
	return nil, false
}
