package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"codecrawl/internal/catalog"
	"codecrawl/internal/config"
	"codecrawl/internal/samples"
)

var builtinCatalogs = map[string]func() catalog.Catalog{
	"samples": samples.Catalog,
}

func builtinNames() string {
	names := make([]string, 0, len(builtinCatalogs))
	for name := range builtinCatalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// catalogFlags are shared by run and list.
type catalogFlags struct {
	plugin   string
	builtin  string
	include  []string
	exclude  []string
	skip     []string
	promoted bool
}

func addCatalogFlags(cmd *cobra.Command, f *catalogFlags) {
	cmd.Flags().StringVar(&f.plugin, "plugin", "", "Go plugin (.so) exporting "+catalog.PluginSymbol)
	cmd.Flags().StringVar(&f.builtin, "builtin", "", "built-in catalog ("+builtinNames()+")")
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "only crawl types matching these globs")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "skip types matching these globs")
	cmd.Flags().StringSliceVar(&f.skip, "skip", nil, "skip members matching Type.Member globs")
	cmd.Flags().BoolVar(&f.promoted, "promoted", false, "also crawl methods promoted from embedded fields (plugins only)")
}

// apply overrides [crawl] with the flags the user set.
func (f *catalogFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("plugin") {
		cfg.Crawl.Plugin = f.plugin
	}
	if flags.Changed("include") {
		cfg.Crawl.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Crawl.Exclude = f.exclude
	}
	if flags.Changed("skip") {
		cfg.Crawl.SkipMembers = f.skip
	}
	if flags.Changed("promoted") {
		cfg.Crawl.Promoted = f.promoted
	}
}

// openCatalog resolves the crawl target and applies the selector.
// The label names the target in headers.
func openCatalog(builtin string, cfg config.Config) (catalog.Catalog, string, error) {
	if err := cfg.Selector().Validate(); err != nil {
		return nil, "", err
	}
	plugin := strings.TrimSpace(cfg.Crawl.Plugin)

	var (
		cat   catalog.Catalog
		label string
	)
	switch {
	case builtin != "" && plugin != "":
		return nil, "", fmt.Errorf("--builtin and --plugin are mutually exclusive")
	case builtin != "" && cfg.Crawl.Promoted:
		return nil, "", fmt.Errorf("--promoted applies to plugins only; built-in catalog %q has fixed members", builtin)
	case builtin != "":
		build, ok := builtinCatalogs[builtin]
		if !ok {
			return nil, "", fmt.Errorf("unknown built-in catalog %q (expected %s)", builtin, builtinNames())
		}
		cat, label = build(), "builtin:"+builtin
	case plugin != "":
		reg, err := catalog.OpenPlugin(plugin, catalog.WithPromoted(cfg.Crawl.Promoted))
		if err != nil {
			return nil, "", err
		}
		cat, label = reg, plugin
	default:
		return nil, "", fmt.Errorf("nothing to crawl: pass --plugin or --builtin, or set [crawl].plugin in %s", config.FileName)
	}
	return catalog.Filter(cat, cfg.Selector()), label, nil
}
