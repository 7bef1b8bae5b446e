package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/apex/log"
	"github.com/gin-gonic/gin/binding"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"google.golang.org/genai"
)

// mapProviderError はプロバイダ固有のエラーを分類付きエラーに変換します。
// プロバイダのメッセージはログにのみ残し、呼び出し元には状態コードだけを渡します。
func mapProviderError(ctx context.Context, model string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).WithField("model", model).Error("Gemini 呼び出しがタイムアウトしました")
		return domain.ErrUpstream("upstream timeout", err)
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		log.WithError(err).WithField("model", model).Warn("Gemini 呼び出しがキャンセルされました")
		return domain.ErrUpstream("request cancelled", err)
	}

	if apiErr, ok := asAPIError(err); ok {
		log.WithFields(log.Fields{
			"model":   model,
			"code":    apiErr.Code,
			"status":  apiErr.Status,
			"message": apiErr.Message,
			"details": apiErr.Details,
		}).Error("Gemini API がエラーを返しました")
		return domain.ErrUpstream(fmt.Sprintf("provider status %d", apiErr.Code), err)
	}

	log.WithError(err).WithField("model", model).Error("Gemini への通信に失敗しました")
	return domain.ErrUpstream("upstream unavailable", err)
}

// isTransient は再試行に値する通信エラーかどうかを判定します。
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if _, ok := asAPIError(err); ok {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET)
}

// firstCandidate は応答から最初の候補を取り出します。
// 2xx でもプロンプトがブロックされた場合はエラー扱いにします。
func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil {
		return nil, domain.ErrUpstreamEmpty("empty response", nil)
	}
	if len(resp.Candidates) == 0 {
		if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
			log.WithFields(log.Fields{
				"block_reason": pf.BlockReason,
				"message":      pf.BlockReasonMessage,
			}).Error("Gemini がプロンプトをブロックしました")
			return nil, domain.ErrUpstream(fmt.Sprintf("prompt blocked: %s", pf.BlockReason), nil)
		}
		return nil, domain.ErrUpstreamEmpty("no candidates", nil)
	}
	// Gemini からの最初の候補 (Candidate) のみを利用する。
	return resp.Candidates[0], nil
}

// finishDetails は異常終了時の FinishReason を details 用の文字列にします。
func finishDetails(candidate *genai.Candidate, fallback string) string {
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return fmt.Sprintf("finish reason: %s", candidate.FinishReason)
	}
	return fallback
}

// extractText は最初の候補から最初のテキストパーツを取り出します。
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", domain.ErrUpstreamEmpty(finishDetails(candidate, "no text part"), nil)
}

// extractInlineImage は最初の候補から最初の画像パーツを取り出します。
func extractInlineImage(resp *genai.GenerateContentResponse) (*domain.GeneratedImage, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindUpstreamEmptyResponse {
			return nil, domain.ErrNoImage(de.Details, nil)
		}
		return nil, err
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.GeneratedImage{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	return nil, domain.ErrNoImage(finishDetails(candidate, "no image part"), nil)
}

// extractGeneratedImage は画像生成エンドポイントの応答から最初の画像を取り出します。
func extractGeneratedImage(resp *genai.GenerateImagesResponse) (*domain.GeneratedImage, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, domain.ErrNoImage("no generated images", nil)
	}
	for _, gi := range resp.GeneratedImages {
		if gi != nil && gi.Image != nil && len(gi.Image.ImageBytes) > 0 {
			return &domain.GeneratedImage{Data: gi.Image.ImageBytes, MimeType: gi.Image.MIMEType}, nil
		}
	}
	if first := resp.GeneratedImages[0]; first != nil && first.RAIFilteredReason != "" {
		return nil, domain.ErrNoImage("filtered: "+first.RAIFilteredReason, nil)
	}
	return nil, domain.ErrNoImage("no image bytes", nil)
}

// decodeJSONText はモデルが返した JSON テキストを obj に読み込み、必須キーを検証します。
func decodeJSONText(text string, obj any) error {
	if err := binding.JSON.BindBody([]byte(trimCodeFence(text)), obj); err != nil {
		return domain.ErrResponseDecode(err)
	}
	return nil
}
