package generator

import (
	"context"

	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"google.golang.org/genai"
)

// imageModalities は generateContent に画像出力を要求するときのモダリティです。
var imageModalities = []string{"IMAGE", "TEXT"}

// imagenExecutor は Imagen の画像生成エンドポイントを使う ImageExecutor です。
type imagenExecutor struct {
	core  *GeminiCore
	model string
}

// ExecuteImage はプロンプトを Imagen に渡し、最初の生成画像を返します。
func (e *imagenExecutor) ExecuteImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	resp, err := e.core.generateImages(ctx, e.model, prompt, &genai.GenerateImagesConfig{})
	if err != nil {
		return nil, err
	}
	return extractGeneratedImage(resp)
}

// geminiImageExecutor は generateContent の画像出力を使う ImageExecutor です。
type geminiImageExecutor struct {
	core  *GeminiCore
	model string
}

// ExecuteImage はプロンプトを1ターンの user メッセージとして送り、最初の画像パーツを返します。
func (e *geminiImageExecutor) ExecuteImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}
	config := &genai.GenerateContentConfig{ResponseModalities: imageModalities}

	resp, err := e.core.generateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, err
	}
	return extractInlineImage(resp)
}
