package server

import (
	"context"
	"sync"

	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

// fakeGemini は generator.ContentGenerator を満たす上流のスタブです。
type fakeGemini struct {
	mu sync.Mutex

	contentFunc func(contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	imagesFunc  func(prompt string) (*genai.GenerateImagesResponse, error)

	calls        int
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.lastContents = contents
	f.lastConfig = config
	f.mu.Unlock()
	if f.contentFunc != nil {
		return f.contentFunc(contents, config)
	}
	return textResponse("ok"), nil
}

func (f *fakeGemini) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.imagesFunc != nil {
		return f.imagesFunc(prompt)
	}
	return &genai.GenerateImagesResponse{}, nil
}

func (f *fakeGemini) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

// panicDispatcher は recovery の確認用です。
type panicDispatcher struct{}

func (panicDispatcher) Ready() bool { return true }

func (panicDispatcher) Dispatch(ctx context.Context, op domain.Operation) (any, error) {
	panic("unexpected")
}
