package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/suites"
)

// ListCmd returns the list command.
func ListCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.BoolP("relations", "r", false, "Show the relations of each suite")

	return &Command{
		Flags:  fs,
		Usage:  "list [flags]",
		Short:  "List suites",
		Long:   "List all suites in run order. Suites skipped by config are marked.",
		NoArgs: true,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execList(io, cfg, fs)
		},
	}
}

func execList(io *IO, cfg *config.Config, fs *flag.FlagSet) error {
	withRelations, _ := fs.GetBool("relations")

	for _, r := range suites.All() {
		info := r.Info()

		marker := ""
		if cfg.Skipped(info.Name) {
			marker = " (skipped)"
		}

		io.Printf("%-14s %s%s\n", info.Name, info.Doc, marker)

		if !withRelations {
			continue
		}

		for _, rel := range info.Relations {
			io.Printf("  %-22s %s\n", rel.Name, rel.Doc)
		}
	}

	return nil
}
