package llm

import "fmt"

// ProviderFactory creates a new provider instance.
type ProviderFactory func() (Provider, error)

var providers = make(map[string]ProviderFactory)

// RegisterProvider makes a provider available under name. Providers register
// themselves from init.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

func NewProvider(name string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}
