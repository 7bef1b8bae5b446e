package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-design-proxy/pkg/domain"
)

const (
	ImageCompressionQuality = 85
	jsonMimeType            = "application/json"
	styleInputMimeType      = "image/jpeg"
	dataURLPrefix           = "data:image/png;base64,"
)

// ImageBackend は画像生成に使う API の形式です。デプロイごとに1つだけ選びます。
type ImageBackend string

const (
	// ImageBackendImagen は専用の画像生成エンドポイント (predict) を使います。
	ImageBackendImagen ImageBackend = "imagen"
	// ImageBackendGemini は generateContent に IMAGE モダリティを要求します。
	ImageBackendGemini ImageBackend = "gemini"
)

// ParseImageBackend は設定値を ImageBackend に変換します。
func ParseImageBackend(s string) (ImageBackend, error) {
	switch ImageBackend(strings.ToLower(strings.TrimSpace(s))) {
	case ImageBackendImagen:
		return ImageBackendImagen, nil
	case ImageBackendGemini:
		return ImageBackendGemini, nil
	default:
		return "", fmt.Errorf("unknown image backend %q (want %q or %q)", s, ImageBackendImagen, ImageBackendGemini)
	}
}

// Options は GeminiGenerator の生成オプションです。
type Options struct {
	TextModel    string
	ImageModel   string
	ImageBackend ImageBackend
	// MaxRetries は一時的な通信エラーに対する再試行回数です (0 または 1)。
	MaxRetries int
	// JSONFallback が true のとき、JSON として解釈できない応答を既定値で補います。
	JSONFallback bool
}

// designConceptJSON はモデル応答の読み込み用です。
// required はキーの有無だけを検証し、空文字列はそのまま値として通します。
type designConceptJSON struct {
	Title              *string `json:"title" binding:"required"`
	Description        *string `json:"description" binding:"required"`
	TileSuggestion     *string `json:"tileSuggestion" binding:"required"`
	BathwareSuggestion *string `json:"bathwareSuggestion" binding:"required"`
}

func (j designConceptJSON) toDomain() *domain.DesignConcept {
	return &domain.DesignConcept{
		Title:              *j.Title,
		Description:        *j.Description,
		TileSuggestion:     *j.TileSuggestion,
		BathwareSuggestion: *j.BathwareSuggestion,
	}
}

// styleAnalysisJSON は designConceptJSON と同じ方針で style の応答を読み込みます。
type styleAnalysisJSON struct {
	PrimaryStyle    *string `json:"primaryStyle" binding:"required"`
	KeyMood         *string `json:"keyMood" binding:"required"`
	ColorPalette    *string `json:"colorPalette" binding:"required"`
	MaterialProfile *string `json:"materialProfile" binding:"required"`
	Guidance        *string `json:"guidance" binding:"required"`
}

func (j styleAnalysisJSON) toDomain() *domain.StyleAnalysis {
	return &domain.StyleAnalysis{
		PrimaryStyle:    *j.PrimaryStyle,
		KeyMood:         *j.KeyMood,
		ColorPalette:    *j.ColorPalette,
		MaterialProfile: *j.MaterialProfile,
		Guidance:        *j.Guidance,
	}
}
