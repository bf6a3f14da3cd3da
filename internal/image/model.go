package image

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

const (
	FormatURL     = "url"
	FormatB64JSON = "b64_json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported response format")
	ErrMissingKey        = errors.New("api key is required")
)

// Options tune a single generation. Zero values fall back to the model's defaults.
type Options struct {
	Model          string `json:"model,omitempty"`
	N              int    `json:"n,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	User           string `json:"user,omitempty"`
}

// Merge returns o with empty fields filled from defaults.
func (o Options) Merge(defaults Options) Options {
	return Options{
		Model:          lo.Ternary(o.Model != "", o.Model, defaults.Model),
		N:              lo.Ternary(o.N != 0, o.N, defaults.N),
		ResponseFormat: lo.Ternary(o.ResponseFormat != "", o.ResponseFormat, defaults.ResponseFormat),
		Size:           lo.Ternary(o.Size != "", o.Size, defaults.Size),
		Quality:        lo.Ternary(o.Quality != "", o.Quality, defaults.Quality),
		Style:          lo.Ternary(o.Style != "", o.Style, defaults.Style),
		User:           lo.Ternary(o.User != "", o.User, defaults.User),
	}
}

type Prompt struct {
	Instructions string
	Options      Options
}

func NewPrompt(instructions string, options Options) Prompt {
	return Prompt{Instructions: instructions, Options: options}
}

type Output struct {
	URL           string
	B64JSON       string
	RevisedPrompt string
}

type Result struct {
	Output Output
}

type Response struct {
	Results []Result
	// Seed is set by models that report the seed they generated with.
	Seed string
}

// Result returns the first result, or nil when the model produced none.
func (r *Response) Result() *Result {
	if r == nil || len(r.Results) == 0 {
		return nil
	}
	return &r.Results[0]
}

// Model is the image generation capability the clients delegate to.
type Model interface {
	Call(context.Context, Prompt) (*Response, error)
}
