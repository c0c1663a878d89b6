package llm

import "fmt"

// ProviderFactory builds a Provider from configuration.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// DefaultModels maps a provider name to its default model identifier.
var DefaultModels = map[string]string{
	"anthropic": "claude-sonnet-4-20250514",
	"openai":    "gpt-4o",
}

var registry = map[string]ProviderFactory{
	"anthropic": func(cfg ProviderConfig) (Provider, error) { return NewAnthropicProvider(cfg) },
	"openai":    func(cfg ProviderConfig) (Provider, error) { return NewOpenAIProvider(cfg) },
}

// NewProvider builds the named provider from cfg.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown provider %q (available: anthropic, openai)", name)
	}
	return factory(cfg)
}

// AvailableProviders lists the registered provider names.
func AvailableProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// GetDefaultModel returns the default model for a provider name, or "" if
// the provider is unknown.
func GetDefaultModel(provider string) string {
	return DefaultModels[provider]
}
