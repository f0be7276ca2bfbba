package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/corpus"
	"github.com/calvinalkan/mrsuite/internal/suites"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// ReplayCmd returns the replay command.
func ReplayCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.Bool("all", false, "Replay every saved entry")
	fs.Bool("prune", false, "Remove entries whose relation now holds")
	fs.BoolP("verbose", "v", false, "Print inputs and outputs of failing entries")

	return &Command{
		Flags: fs,
		Usage: "replay [id...] [flags]",
		Short: "Re-check saved violations",
		Long: `Regenerate saved cases from their seed and case index and check them again.
IDs may be abbreviated to any unique prefix. Exits 1 if any entry still fails.`,
		Examples: []string{
			"replay --all --prune",
			"replay 0H4K -v",
		},
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execReplay(io, cfg, fs, args)
		},
	}
}

func execReplay(io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	all, _ := fs.GetBool("all")
	prune, _ := fs.GetBool("prune")

	if all && len(args) > 0 {
		return errors.New("--all cannot be combined with entry ids")
	}

	if !all && len(args) == 0 {
		return errors.New("no entries given (pass ids or --all)")
	}

	var entries []corpus.Entry

	if all {
		listed, err := listEntries(io, cfg.CorpusDirAbs)
		if err != nil {
			return err
		}

		entries = listed
	} else {
		for _, id := range args {
			entry, err := corpus.Load(cfg.CorpusDirAbs, id)
			if err != nil {
				return err
			}

			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		io.Println("corpus is empty")

		return nil
	}

	failing := 0

	for _, entry := range entries {
		runner, ok := suites.Lookup(entry.Suite)
		if !ok {
			io.Warn(fmt.Sprintf("entry %s references unknown suite %s", entry.ID, entry.Suite), "remove it with 'mrcheck corpus --rm "+entry.ID+"'")

			continue
		}

		v, err := corpus.Replay(runner, entry)
		if err != nil {
			io.Warn(err.Error(), "remove the entry if the relation was renamed or dropped")

			continue
		}

		if v != nil {
			failing++

			io.Printf("FAIL  %s\n      %s\n", entry, v.Message)

			io.Detail(6, mr.FormatCase(*v))

			continue
		}

		if !prune {
			io.Printf("ok    %s\n", entry)

			continue
		}

		removeErr := corpus.Remove(cfg.CorpusDirAbs, entry.ID)
		if removeErr != nil {
			return removeErr
		}

		io.Printf("pruned %s\n", entry)
	}

	if failing > 0 {
		return fmt.Errorf("%w: %d of %d entries still fail", ErrViolations, failing, len(entries))
	}

	return nil
}
