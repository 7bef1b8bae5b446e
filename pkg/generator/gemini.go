package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"github.com/shouni/gemini-design-proxy/pkg/imgutil"
	"google.golang.org/genai"
)

// GeminiGenerator は design / style / image / chat の4種類の要求を
// Gemini API の形式に変換して実行する統合ジェネレーターです。
type GeminiGenerator struct {
	core      *GeminiCore
	images    ImageExecutor
	textModel string
	fallback  bool
}

// NewGeminiGenerator は GeminiGenerator を初期化します。
// 画像生成のバックエンドは opts.ImageBackend で1つだけ選びます。
func NewGeminiGenerator(aiClient ContentGenerator, opts Options) (*GeminiGenerator, error) {
	core, err := NewGeminiCore(aiClient, opts.MaxRetries)
	if err != nil {
		return nil, err
	}
	if opts.TextModel == "" {
		return nil, fmt.Errorf("text model is required")
	}
	if opts.ImageModel == "" {
		return nil, fmt.Errorf("image model is required")
	}

	var images ImageExecutor
	switch opts.ImageBackend {
	case ImageBackendImagen:
		images = &imagenExecutor{core: core, model: opts.ImageModel}
	case ImageBackendGemini:
		images = &geminiImageExecutor{core: core, model: opts.ImageModel}
	default:
		return nil, fmt.Errorf("unsupported image backend: %q", opts.ImageBackend)
	}

	return &GeminiGenerator{
		core:      core,
		images:    images,
		textModel: opts.TextModel,
		fallback:  opts.JSONFallback,
	}, nil
}

// GenerateDesign は部屋の説明からデザインコンセプトを生成します。
func (g *GeminiGenerator) GenerateDesign(ctx context.Context, req domain.DesignRequest) (*domain.DesignConcept, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: designUserText(req.Prompt)}}},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(designSystemPrompt),
		ResponseMIMEType:  jsonMimeType,
		ResponseSchema:    designSchema,
	}

	text, err := g.generateText(ctx, contents, config)
	if err != nil {
		return nil, err
	}

	var concept designConceptJSON
	if err := decodeJSONText(text, &concept); err != nil {
		if !g.fallback {
			log.WithError(err).WithField("text", text).Warn("design 応答を JSON として解釈できませんでした")
			return nil, err
		}
		return &domain.DesignConcept{
			Title:              fallbackDesignTitle,
			Description:        text,
			TileSuggestion:     fallbackDesignTile,
			BathwareSuggestion: fallbackDesignBathware,
		}, nil
	}
	return concept.toDomain(), nil
}

// AnalyzeStyle は部屋の写真 (base64) からスタイルを分析します。
func (g *GeminiGenerator) AnalyzeStyle(ctx context.Context, req domain.StyleRequest) (*domain.StyleAnalysis, error) {
	imgPart, err := styleImagePart(req.Base64Image)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: styleUserText}, imgPart}},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(styleSystemPrompt),
		ResponseMIMEType:  jsonMimeType,
		ResponseSchema:    styleSchema,
	}

	text, err := g.generateText(ctx, contents, config)
	if err != nil {
		return nil, err
	}

	var analysis styleAnalysisJSON
	if err := decodeJSONText(text, &analysis); err != nil {
		if !g.fallback {
			log.WithError(err).WithField("text", text).Warn("style 応答を JSON として解釈できませんでした")
			return nil, err
		}
		guidance := text
		if strings.TrimSpace(guidance) == "" {
			guidance = fallbackStyleGuidance
		}
		return &domain.StyleAnalysis{
			PrimaryStyle:    fallbackStylePrimary,
			KeyMood:         fallbackStyleMood,
			ColorPalette:    fallbackStylePalette,
			MaterialProfile: fallbackStyleMaterial,
			Guidance:        guidance,
		}, nil
	}
	return analysis.toDomain(), nil
}

// GenerateImage はプロンプトから画像を生成し、PNG の data URI で返します。
func (g *GeminiGenerator) GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error) {
	img, err := g.images.ExecuteImage(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	data := img.Data
	if img.MimeType != "image/png" {
		converted, err := imgutil.ConvertToPNG(img.Data)
		if err != nil {
			log.WithError(err).WithField("mime_type", img.MimeType).Error("生成画像を PNG に変換できませんでした")
			return nil, domain.ErrResponseDecode(fmt.Errorf("PNG 変換エラー: %w", err))
		}
		data = converted
	}
	return &domain.ImageResult{DataURL: toDataURL(data)}, nil
}

// Chat は会話履歴をそのまま contents として転送し、最初のテキストを返します。
func (g *GeminiGenerator) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	contents := make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{Role: turn.Role, Parts: parts})
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(chatSystemPrompt),
	}

	text, err := g.generateText(ctx, contents, config)
	if err != nil {
		if g.fallback && isEmptyResponse(err) {
			return &domain.ChatReply{Reply: fallbackChatReply}, nil
		}
		return nil, err
	}
	return &domain.ChatReply{Reply: text}, nil
}

// generateText はテキストモデルを呼び出し、最初のテキストパーツを返します。
func (g *GeminiGenerator) generateText(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.core.generateContent(ctx, g.textModel, contents, config)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

// styleImagePart は base64 画像を InlineData パーツに変換します。
// JPEG 以外の画像は JPEG に変換し、変換できなければ元の形式のまま送ります。
func styleImagePart(b64 string) (*genai.Part, error) {
	data, err := decodeBase64Image(b64)
	if err != nil {
		return nil, domain.ErrInvalidRequest("base64Image is not valid base64", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrInvalidRequest("base64Image is empty", nil)
	}

	mimeType := imgutil.DetectMimeType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, domain.ErrInvalidRequest("base64Image is not an image", fmt.Errorf("detected %s", mimeType))
	}
	if mimeType != styleInputMimeType {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			data, mimeType = compressed, styleInputMimeType
		} else {
			log.WithError(err).WithField("mime_type", mimeType).Warn("JPEG に変換できないため元の形式で送信します")
		}
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}, nil
}

func isEmptyResponse(err error) bool {
	de := domain.AsError(err)
	return de.Kind == domain.KindUpstreamEmptyResponse
}
