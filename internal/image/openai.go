package image

import (
	"context"
	"net/http"

	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

type OpenAIModel struct {
	client   *openai.Client
	defaults Options
}

type OpenAIParams struct {
	Key      string
	BaseURL  string
	Client   *http.Client
	Defaults Options
}

func NewOpenAIModel(params OpenAIParams) (*OpenAIModel, error) {
	if params.Key == "" {
		return nil, ErrMissingKey
	}

	config := openai.DefaultConfig(params.Key)
	if params.BaseURL != "" {
		config.BaseURL = params.BaseURL
	}
	if params.Client != nil {
		config.HTTPClient = params.Client
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(config), defaults: params.Defaults}, nil
}

func (m *OpenAIModel) Call(ctx context.Context, prompt Prompt) (*Response, error) {
	opts := prompt.Options.Merge(m.defaults)
	log := log.FromContextOrDiscard(ctx).WithGroup("openai").With("options", opts)
	log.Info("generating image via openai")

	resp, err := m.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt.Instructions,
		Model:          opts.Model,
		N:              opts.N,
		ResponseFormat: opts.ResponseFormat,
		Size:           opts.Size,
		Quality:        opts.Quality,
		Style:          opts.Style,
		User:           opts.User,
	})
	if err != nil {
		return nil, err
	}

	log.Info("received images via openai", "count", len(resp.Data))
	return &Response{
		Results: lo.Map(resp.Data, func(d openai.ImageResponseDataInner, _ int) Result {
			return Result{Output{URL: d.URL, B64JSON: d.B64JSON, RevisedPrompt: d.RevisedPrompt}}
		}),
	}, nil
}
