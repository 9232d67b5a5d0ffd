package parser

import (
	"fmt"
	"sort"
	"sync"

	"coursepilot/internal/config"
	"coursepilot/internal/port"
)

// ProviderFactory creates a LanguageModel from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.LanguageModel, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a language model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// RegisteredProviders lists registered provider names in sorted order.
func RegisteredProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewLanguageModel creates a LanguageModel from a provider config using the registered factory.
func NewLanguageModel(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
