package llm

import "fmt"

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI-compatible endpoint
func NewOllamaProvider(config Config) (*OpenAIProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultOllamaBaseURL
	}
	if config.APIKey == "" {
		config.APIKey = "ollama" // ignored by the server, required by the client
	}
	if config.Timeout == 0 {
		config.Timeout = 60 // local models can be slow
	}

	return newChatCompletionsProvider("ollama", config.Model, config), nil
}
