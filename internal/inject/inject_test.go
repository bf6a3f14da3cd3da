package inject

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmorgan81/imagebot/internal/client"
	"github.com/dmorgan81/imagebot/internal/config"
	"github.com/dmorgan81/imagebot/internal/handler"
	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/store"
	"github.com/samber/do"
)

func TestSetupOpenAI(t *testing.T) {
	var model string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		model = req.Model
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"created":1700000000,"data":[{"url":"https://example.com/a.png"}]}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		Provider:      config.ProviderOpenAI,
		OpenAIKey:     "sk-test",
		OpenAIBaseURL: server.URL + "/v1",
		OutputDir:     t.TempDir(),
	}
	injector := Setup(context.Background(), cfg)
	defer injector.Shutdown()

	if _, ok := do.MustInvoke[image.Model](injector).(*image.OpenAIModel); !ok {
		t.Error("model is not an OpenAIModel")
	}
	if _, ok := do.MustInvoke[store.Uploader](injector).(*store.FileUploader); !ok {
		t.Error("uploader is not a FileUploader without a bucket")
	}

	url, err := do.MustInvoke[client.AIClient](injector).CreateImageURL(context.Background(), "a kitten")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://example.com/a.png" {
		t.Errorf("url = %q", url)
	}
	if model != "dall-e-3" {
		t.Errorf("model = %q, want dall-e-3 when MODEL is unset", model)
	}

	if _, err := do.Invoke[*handler.Handler](injector); err != nil {
		t.Errorf("invoke handler: %v", err)
	}
}

func TestSetupDezgo(t *testing.T) {
	for _, k := range []string{"IMAGEBOT_MODEL", "MODEL", "IMAGEBOT_DEZGO_KEY_PARAM", "DEZGO_KEY_PARAM", "IMAGEBOT_BUCKET", "BUCKET", "IMAGEBOT_PROMPTS_PARAM", "PROMPTS_PARAM", "IMAGEBOT_OPENAI_API_KEY_PARAM", "OPENAI_API_KEY_PARAM", "IMAGEBOT_DISTRIBUTION", "DISTRIBUTION"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("IMAGEBOT_PROVIDER", "dezgo")
	t.Setenv("IMAGEBOT_DEZGO_KEY", "dz-test")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	injector := Setup(context.Background(), cfg)
	defer injector.Shutdown()

	m, ok := do.MustInvoke[image.Model](injector).(*image.DezgoModel)
	if !ok {
		t.Fatal("model is not a DezgoModel")
	}
	if m.Key != "dz-test" {
		t.Errorf("Key = %q, want dz-test", m.Key)
	}
	if m.Model != "" {
		t.Errorf("Model = %q, want empty so dezgo uses its default", m.Model)
	}
}

func TestSetupMissingKey(t *testing.T) {
	injector := Setup(context.Background(), &config.Config{Provider: config.ProviderOpenAI})
	defer injector.Shutdown()

	if _, err := do.Invoke[image.Model](injector); err == nil {
		t.Error("expected error without an api key")
	}
}
