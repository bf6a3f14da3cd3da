package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmorgan81/imagebot/internal/client"
	"github.com/dmorgan81/imagebot/internal/feed"
	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/dmorgan81/imagebot/internal/prompt"
	"github.com/dmorgan81/imagebot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	FormatURL = "url"
	FormatB64 = "b64"
)

var ErrInvalidName = errors.New("name must be a single path element")

type Input struct {
	Prompt string `json:"prompt,omitempty"`
	Format string `json:"format,omitempty"`
	Name   string `json:"name,omitempty"`
}

type Output struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url,omitempty"`
	Key    string `json:"key,omitempty"`
	Format string `json:"format,omitempty"`
}

// FeedGenerator renders the feed of everything stored so far.
type FeedGenerator interface {
	Generate(context.Context) ([]byte, error)
}

type Handler struct {
	client      client.AIClient
	randomizer  *prompt.Randomizer
	uploader    store.Uploader
	invalidator store.Invalidator
	feed        FeedGenerator
	now         func() time.Time
}

func NewHandler(i *do.Injector) (*Handler, error) {
	h := &Handler{
		client:      do.MustInvoke[client.AIClient](i),
		randomizer:  do.MustInvoke[*prompt.Randomizer](i),
		uploader:    do.MustInvoke[store.Uploader](i),
		invalidator: do.MustInvoke[store.Invalidator](i),
		now:         time.Now,
	}
	if g, err := do.Invoke[FeedGenerator](i); err == nil {
		h.feed = g
	}
	return h, nil
}

func (h *Handler) Handle(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler").With("input", input)
	log.Info("handling invocation")

	if !validName(input.Name) {
		return Output{}, fmt.Errorf("%w: %q", ErrInvalidName, input.Name)
	}

	if strings.TrimSpace(input.Prompt) == "" {
		p, err := h.randomizer.Randomize(ctx)
		if err != nil {
			return Output{}, err
		}
		input.Prompt = p
	}

	switch lo.Ternary(input.Format != "", input.Format, FormatURL) {
	case FormatURL:
		url, err := h.client.CreateImageURL(ctx, input.Prompt)
		if err != nil {
			return Output{}, err
		}
		log.Info("created image url", "url", url)
		return Output{Prompt: input.Prompt, URL: url}, nil
	case FormatB64:
		return h.store(ctx, input)
	default:
		return Output{}, fmt.Errorf("unknown format %q", input.Format)
	}
}

// validName accepts empty names, which are replaced by a timestamp.
func validName(name string) bool {
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

func (h *Handler) store(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler")

	b64, err := h.client.CreateImageB64(ctx, input.Prompt)
	if err != nil {
		return Output{}, err
	}
	data, err := image.DecodeBase64(b64)
	if err != nil {
		return Output{}, err
	}
	format, err := image.Validate(data)
	if err != nil {
		return Output{}, err
	}

	name := lo.Ternary(input.Name != "", input.Name, h.now().UTC().Format("20060102150405"))
	key := name + "." + format
	err = h.uploader.Upload(ctx, store.UploadParams{
		Name:        key,
		Data:        data,
		ContentType: image.ContentType(format),
		Metadata:    map[string]string{"prompt": input.Prompt, "name": name},
	})
	if err != nil {
		return Output{}, err
	}

	paths := []string{"/" + key}
	if h.feed != nil {
		rss, err := h.feed.Generate(ctx)
		if err != nil {
			return Output{}, err
		}
		err = h.uploader.Upload(ctx, store.UploadParams{
			Name:        feed.Name,
			Data:        rss,
			ContentType: "application/rss+xml",
		})
		if err != nil {
			return Output{}, err
		}
		paths = append(paths, "/"+feed.Name)
	}

	if err := h.invalidator.Invalidate(ctx, paths); err != nil {
		return Output{}, err
	}

	log.Info("stored image", "key", key, "bytes", len(data))
	return Output{Prompt: input.Prompt, Key: key, Format: format}, nil
}
