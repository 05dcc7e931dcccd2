package groq

import "codesync/internal/llm"

func init() {
	llm.RegisterProvider(providerName, func() (llm.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config)
	})
}
