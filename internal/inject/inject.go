package inject

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/imagebot/internal/client"
	"github.com/dmorgan81/imagebot/internal/config"
	"github.com/dmorgan81/imagebot/internal/feed"
	"github.com/dmorgan81/imagebot/internal/handler"
	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/dmorgan81/imagebot/internal/param"
	"github.com/dmorgan81/imagebot/internal/prompt"
	"github.com/dmorgan81/imagebot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

// Image generation can take close to a minute for the larger models.
const httpTimeout = 2 * time.Minute

func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: httpTimeout})

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})

	if cfg.UsesAWS() {
		do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	} else {
		do.ProvideValue[param.Fetcher](injector, param.StaticFetcher{})
	}

	do.ProvideNamed[string](injector, "openai_key", secret(ctx, cfg.OpenAIKey, cfg.OpenAIKeyParam))
	do.ProvideNamed[string](injector, "dezgo_key", secret(ctx, cfg.DezgoKey, cfg.DezgoKeyParam))
	do.ProvideNamed[[]string](injector, "prompts", func(i *do.Injector) ([]string, error) {
		if cfg.PromptsParam == "" {
			return cfg.Prompts, nil
		}
		return do.MustInvoke[param.Fetcher](i).FetchAll(ctx, cfg.PromptsParam)
	})
	do.ProvideNamedValue[string](injector, "bucket", cfg.Bucket)
	do.ProvideNamedValue[string](injector, "distribution", cfg.Distribution)
	do.ProvideNamedValue[string](injector, "site", cfg.Site)

	do.Provide[image.Model](injector, NewModel)
	do.Provide[client.AIClient](injector, client.NewOpenAIClient)
	do.Provide[*prompt.Randomizer](injector, prompt.NewRandomizer)

	if cfg.Bucket != "" {
		do.Provide[store.Uploader](injector, store.NewS3Uploader)
		do.Provide[store.Invalidator](injector, store.NewCloudFrontInvalidator)
		if cfg.Site != "" {
			do.Provide[handler.FeedGenerator](injector, func(i *do.Injector) (handler.FeedGenerator, error) {
				return feed.NewS3Generator(i)
			})
		}
	} else {
		do.ProvideValue[store.Uploader](injector, &store.FileUploader{Dir: cfg.OutputDir})
		do.ProvideValue[store.Invalidator](injector, store.NoopInvalidator{})
	}

	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}

// NewModel builds the image model for the configured provider.
// Without MODEL, OpenAI gets dall-e-3 and Dezgo picks its own default.
func NewModel(i *do.Injector) (image.Model, error) {
	cfg := do.MustInvoke[*config.Config](i)
	httpClient := do.MustInvoke[*http.Client](i)
	defaults := image.Options{
		Model:   lo.Ternary(cfg.Model != "", cfg.Model, openai.CreateImageModelDallE3),
		Size:    cfg.Size,
		Quality: cfg.Quality,
		Style:   cfg.Style,
	}

	switch cfg.Provider {
	case config.ProviderDezgo:
		return &image.DezgoModel{
			Client: httpClient,
			Key:    do.MustInvokeNamed[string](i, "dezgo_key"),
			Model:  cfg.Model,
		}, nil
	case config.ProviderOpenAI:
		return image.NewOpenAIModel(image.OpenAIParams{
			Key:      do.MustInvokeNamed[string](i, "openai_key"),
			BaseURL:  cfg.OpenAIBaseURL,
			Client:   httpClient,
			Defaults: defaults,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func secret(ctx context.Context, value, path string) do.Provider[string] {
	return func(i *do.Injector) (string, error) {
		if value != "" || path == "" {
			return value, nil
		}
		return do.MustInvoke[param.Fetcher](i).Fetch(ctx, path)
	}
}
