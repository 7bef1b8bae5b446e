package generator

import (
	"context"

	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は Gemini API との通信部分を抽象化するインターフェースです。
// *genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Generator はディスパッチャが利用する統合窓口です。
// 各メソッドは失敗時に *domain.Error を返します。
type Generator interface {
	GenerateDesign(ctx context.Context, req domain.DesignRequest) (*domain.DesignConcept, error)
	AnalyzeStyle(ctx context.Context, req domain.StyleRequest) (*domain.StyleAnalysis, error)
	GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error)
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
}

// ImageExecutor は画像生成リクエストを実行し、最初の画像を返します。
// バックエンド (Imagen / Gemini マルチモーダル) ごとに実装が分かれます。
type ImageExecutor interface {
	ExecuteImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}
