//go:build integration

package client

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/store"
)

const goldenRetrievers = "Two golden retrievers playing tug-o-war in the snow."

func liveClient(t *testing.T) AIClient {
	t.Helper()
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("OPENAI_API_KEY not set")
	}
	model, err := image.NewOpenAIModel(image.OpenAIParams{Key: key, Defaults: image.Options{Model: "dall-e-3"}})
	if err != nil {
		t.Fatal(err)
	}
	return New(model)
}

func TestLiveCreateImageURL(t *testing.T) {
	c := liveClient(t)

	url, err := c.CreateImageURL(context.Background(), goldenRetrievers)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(url) == "" {
		t.Fatal("url is blank")
	}
	t.Logf("URL: %s", url)
}

func TestLiveCreateImageB64(t *testing.T) {
	c := liveClient(t)

	b64, err := c.CreateImageB64(context.Background(), goldenRetrievers)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(b64) == "" {
		t.Fatal("base64 image is blank")
	}

	data, err := image.DecodeBase64(b64)
	if err != nil {
		t.Fatal(err)
	}
	format, err := image.Validate(data)
	if err != nil {
		t.Fatal(err)
	}

	uploader := &store.FileUploader{Dir: t.TempDir()}
	err = uploader.Upload(context.Background(), store.UploadParams{
		Name:        "image." + format,
		Data:        data,
		ContentType: image.ContentType(format),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(uploader.Dir, "image."+format)); err != nil {
		t.Fatal(err)
	}
}
