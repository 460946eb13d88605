package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codecrawl/internal/catalog"
)

type listOptions struct {
	catalog catalogFlags
	format  string
}

var listOpts listOptions

var listCmd = &cobra.Command{
	Use:   "list [--plugin path.so | --builtin name]",
	Short: "List the types and members a run would crawl",
	Args:  cobra.NoArgs,
	RunE:  listCatalog,
}

func init() {
	addCatalogFlags(listCmd, &listOpts.catalog)
	listCmd.Flags().StringVar(&listOpts.format, "format", "pretty", "output format (pretty|json)")
}

type listedMember struct {
	Name        string `json:"name"`
	Signature   string `json:"signature"`
	Invocations int    `json:"invocations"`
}

type listedType struct {
	Name    string         `json:"name"`
	Members []listedMember `json:"members"`
}

func listCatalog(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(listOpts.format)
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", listOpts.format)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	listOpts.catalog.apply(cmd, &s.cfg)
	cat, _, err := openCatalog(listOpts.catalog.builtin, s.cfg)
	if err != nil {
		return err
	}

	listed := describeCatalog(cat)
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	}
	return renderList(cmd.OutOrStdout(), listed)
}

// describeCatalog lists members with the number of calls a crawl makes.
func describeCatalog(cat catalog.Catalog) []listedType {
	types := cat.Types()
	out := make([]listedType, 0, len(types))
	for _, t := range types {
		lt := listedType{Name: t.Name, Members: []listedMember{}}
		for _, m := range cat.Members(t) {
			lt.Members = append(lt.Members, listedMember{
				Name:        m.Name,
				Signature:   m.Signature(),
				Invocations: 1 + m.NullableCount(),
			})
		}
		out = append(out, lt)
	}
	return out
}

func renderList(w io.Writer, types []listedType) error {
	members, calls := 0, 0
	for _, t := range types {
		if _, err := fmt.Fprintln(w, t.Name); err != nil {
			return err
		}
		for _, m := range t.Members {
			members++
			calls += m.Invocations
			if _, err := fmt.Fprintf(w, "  %-40s x%d\n", m.Signature, m.Invocations); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d types, %d members, %d invocations\n", len(types), members, calls)
	return err
}
