package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PROVIDER", "OPENAI_API_KEY", "OPENAI_API_KEY_PARAM", "DEZGO_KEY", "DEZGO_KEY_PARAM", "MODEL", "BUCKET", "DISTRIBUTION", "PROMPTS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
		t.Setenv("IMAGEBOT_"+k, "")
		os.Unsetenv("IMAGEBOT_" + k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", c.Provider)
	}
	if c.Model != "" {
		t.Errorf("Model = %q, want empty so the provider picks its default", c.Model)
	}
	if c.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, want sk-test", c.OpenAIKey)
	}
	if c.UsesAWS() {
		t.Error("UsesAWS = true for a local config")
	}
}

func TestLoadPrefixWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("IMAGEBOT_OPENAI_API_KEY", "sk-prefixed")
	t.Setenv("IMAGEBOT_PROMPTS", "a kitten,two dogs")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if c.OpenAIKey != "sk-prefixed" {
		t.Errorf("OpenAIKey = %q, want sk-prefixed", c.OpenAIKey)
	}
	if len(c.Prompts) != 2 {
		t.Errorf("Prompts = %v, want 2 entries", c.Prompts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(file, []byte("PROVIDER=dezgo\nDEZGO_KEY=dz-test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("PROVIDER")
		os.Unsetenv("DEZGO_KEY")
	})

	c, err := Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if c.Provider != ProviderDezgo || c.DezgoKey != "dz-test" {
		t.Errorf("config = %+v, want dezgo provider from .env", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"openai key", Config{Provider: ProviderOpenAI, OpenAIKey: "k"}, false},
		{"openai param", Config{Provider: ProviderOpenAI, OpenAIKeyParam: "/p"}, false},
		{"openai missing key", Config{Provider: ProviderOpenAI}, true},
		{"dezgo missing key", Config{Provider: ProviderDezgo}, true},
		{"unknown provider", Config{Provider: "midjourney", OpenAIKey: "k"}, true},
		{"distribution without bucket", Config{Provider: ProviderOpenAI, OpenAIKey: "k", Distribution: "E123"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
