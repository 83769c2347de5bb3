package provider

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	responses []*model.LLMResponse
	err       error

	got    *model.LLMRequest
	stream bool
}

func (f *fakeGenerator) GenerateContent(_ context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	f.got = req
	f.stream = stream
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, r := range f.responses {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func textResponse(parts ...string) *model.LLMResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &model.LLMResponse{Content: content}
}

func TestGeminiCompleter_Complete(t *testing.T) {
	req := require.New(t)
	gen := &fakeGenerator{responses: []*model.LLMResponse{textResponse("hi ", "there")}}
	c := newGeminiCompleter(gen, GeminiConfig{Model: "gemini-2.5-flash"})

	reply, err := c.Complete(context.Background(), "hello")

	req.NoError(err)
	req.Equal("hi there", reply)
	req.False(gen.stream)
	req.Equal("gemini-2.5-flash", gen.got.Model)
	req.Len(gen.got.Contents, 1)
	req.Equal("user", gen.got.Contents[0].Role)
	req.Len(gen.got.Contents[0].Parts, 1)
	req.Equal("hello", gen.got.Contents[0].Parts[0].Text)
	req.Equal(int32(1), gen.got.Config.CandidateCount)
	req.Nil(gen.got.Config.Temperature)
}

func TestGeminiCompleter_Options(t *testing.T) {
	req := require.New(t)
	gen := &fakeGenerator{responses: []*model.LLMResponse{textResponse("ok")}}
	c := newGeminiCompleter(gen, GeminiConfig{Model: "gemini-2.5-flash", Temperature: 0.5, MaxTokens: 128})

	_, err := c.Complete(context.Background(), "hello")

	req.NoError(err)
	req.NotNil(gen.got.Config.Temperature)
	req.InDelta(0.5, *gen.got.Config.Temperature, 0.0001)
	req.Equal(int32(128), gen.got.Config.MaxOutputTokens)
}

func TestGeminiCompleter_EmptyResponse(t *testing.T) {
	tests := []struct {
		name      string
		responses []*model.LLMResponse
	}{
		{name: "no responses"},
		{name: "nil content", responses: []*model.LLMResponse{{}}},
		{name: "no text parts", responses: []*model.LLMResponse{textResponse("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiCompleter(&fakeGenerator{responses: tt.responses}, GeminiConfig{Model: "gemini-2.5-flash"})

			_, err := c.Complete(context.Background(), "hello")

			require.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestGeminiCompleter_UpstreamError(t *testing.T) {
	req := require.New(t)
	upstream := errors.New("quota exceeded")
	c := newGeminiCompleter(&fakeGenerator{err: upstream}, GeminiConfig{Model: "gemini-2.5-flash"})

	_, err := c.Complete(context.Background(), "hello")

	req.ErrorIs(err, upstream)
	req.Contains(err.Error(), "generate content")
}
