package catalog

import (
	"errors"
	"fmt"
	"plugin"
)

// PluginSymbol is the symbol a crawl plugin exports.
// It may be a variable of type []any or a func() []any.
const PluginSymbol = "CrawlTypes"

// ErrPluginSymbol is returned when the plugin does not export PluginSymbol
// with a supported signature.
var ErrPluginSymbol = errors.New("plugin does not export " + PluginSymbol)

// OpenPlugin loads a Go plugin built with -buildmode=plugin and registers
// the sample values it exports.
func OpenPlugin(path string, opts ...RegistryOption) (*Registry, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin %q: %w", path, err)
	}
	sym, err := p.Lookup(PluginSymbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrPluginSymbol)
	}
	samples, err := samplesFromSymbol(sym)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewRegistry(opts...).Register(samples...), nil
}

func samplesFromSymbol(sym any) ([]any, error) {
	switch s := sym.(type) {
	case *[]any:
		return *s, nil
	case func() []any:
		return s(), nil
	case *func() []any:
		return (*s)(), nil
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrPluginSymbol, sym)
}
