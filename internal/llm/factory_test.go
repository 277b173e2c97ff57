package llm

import (
	"context"
	"testing"

	"github.com/ppiankov/crosscheck/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		config   Config
		wantName string
		wantErr  bool
		desc     string
	}{
		{config: Config{Provider: ""}, desc: "Empty provider disables LLM"},
		{config: Config{Provider: "heuristic"}, desc: "Heuristic provider disables LLM"},
		{config: Config{Provider: "OpenAI", APIKey: "k"}, wantName: "openai", desc: "OpenAI is case-insensitive"},
		{config: Config{Provider: "claude", APIKey: "k"}, wantName: "anthropic", desc: "Claude alias"},
		{config: Config{Provider: "ollama", Model: "llama3.1"}, wantName: "ollama", desc: "Ollama"},
		{config: Config{Provider: "openai"}, wantErr: true, desc: "Missing API key"},
		{config: Config{Provider: "palm"}, wantErr: true, desc: "Unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantName == "" {
				if provider != nil {
					t.Errorf("Expected nil provider, got %s", provider.Name())
				}
				return
			}
			if provider == nil || provider.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %v", tt.wantName, provider)
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:  "anthropic",
		Model:     "claude-test",
		APIKey:    "k",
		Timeout:   10,
		MaxTokens: 500,
		NoProxy:   "localhost",
	})

	if cfg.Provider != "anthropic" || cfg.Model != "claude-test" || cfg.APIKey != "k" {
		t.Errorf("Unexpected identity fields: %+v", cfg)
	}
	if cfg.Timeout != 10 || cfg.MaxTokens != 500 || cfg.NoProxy != "localhost" {
		t.Errorf("Unexpected tuning fields: %+v", cfg)
	}
}
