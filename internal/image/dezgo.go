package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/samber/lo"
)

const DezgoURL = "https://api.dezgo.com"

type dezgoRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	Seed   string `json:"seed,omitempty"`
}

// DezgoModel returns raw image bytes, so it only serves base64 output.
type DezgoModel struct {
	Client  *http.Client
	Key     string
	BaseURL string
	Model   string
	Seed    string
}

func (m *DezgoModel) Call(ctx context.Context, prompt Prompt) (*Response, error) {
	// An empty format means the remote default, which is a URL.
	if format := prompt.Options.ResponseFormat; format != FormatB64JSON {
		return nil, fmt.Errorf("dezgo: %w: %q", ErrUnsupportedFormat, lo.Ternary(format != "", format, FormatURL))
	}

	params := dezgoRequest{
		Prompt: prompt.Instructions,
		Model:  prompt.Options.Merge(Options{Model: m.Model}).Model,
		Seed:   m.Seed,
	}
	log := log.FromContextOrDiscard(ctx).WithGroup("dezgo").With("params", params)
	log.Info("generating image via api.dezgo.com")

	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	url := m.BaseURL
	if url == "" {
		url = DezgoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/text2image", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("X-Dezgo-Key", m.Key)

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dezgo: unexpected status code: %d, body: %s", resp.StatusCode, data)
	}

	seed := resp.Header.Get("x-input-seed")
	log.Info("received image via api.dezgo.com", "seed", seed, "bytes", len(data))

	return &Response{
		Results: []Result{{Output{B64JSON: base64.StdEncoding.EncodeToString(data)}}},
		Seed:    seed,
	}, nil
}
