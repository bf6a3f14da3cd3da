// Package client turns a text prompt into a generated image, either as a
// remotely hosted URL or as base64-encoded image bytes.
package client

import (
	"context"
	"errors"

	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/samber/do"
)

var ErrNoResult = errors.New("model returned no images")

// AIClient generates images from text prompts.
type AIClient interface {
	// CreateImageURL returns the URL of an image generated from request.
	// The image is hosted by the remote service.
	CreateImageURL(ctx context.Context, request string) (string, error)

	// CreateImageB64 returns the base64-encoded bytes of an image generated from request.
	CreateImageB64(ctx context.Context, request string) (string, error)
}

var (
	urlOptions = image.Options{N: 1}
	b64Options = image.Options{ResponseFormat: image.FormatB64JSON}
)

// OpenAIClient holds no state besides the model and is safe for concurrent use.
// Errors from the model are returned unchanged.
type OpenAIClient struct {
	model image.Model
}

func New(model image.Model) *OpenAIClient {
	return &OpenAIClient{model: model}
}

func NewOpenAIClient(i *do.Injector) (AIClient, error) {
	return New(do.MustInvoke[image.Model](i)), nil
}

func (c *OpenAIClient) CreateImageURL(ctx context.Context, request string) (string, error) {
	log.FromContextOrDiscard(ctx).WithGroup("client").Info("creating image url", "request", request)
	result, err := c.call(ctx, image.NewPrompt(request, urlOptions))
	if err != nil {
		return "", err
	}
	return result.Output.URL, nil
}

func (c *OpenAIClient) CreateImageB64(ctx context.Context, request string) (string, error) {
	log.FromContextOrDiscard(ctx).WithGroup("client").Info("creating base64 image", "request", request)
	result, err := c.call(ctx, image.NewPrompt(request, b64Options))
	if err != nil {
		return "", err
	}
	return result.Output.B64JSON, nil
}

func (c *OpenAIClient) call(ctx context.Context, prompt image.Prompt) (*image.Result, error) {
	resp, err := c.model.Call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	result := resp.Result()
	if result == nil {
		return nil, ErrNoResult
	}
	return result, nil
}
