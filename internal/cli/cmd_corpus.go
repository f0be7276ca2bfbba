package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/corpus"
)

// CorpusCmd returns the corpus command.
func CorpusCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("corpus", flag.ContinueOnError)
	fs.Bool("rm", false, "Remove the given entries")

	return &Command{
		Flags: fs,
		Usage: "corpus [id...] [flags]",
		Short: "List or show saved violations",
		Long: `Without ids, list saved entries oldest first.
With ids, print each entry in full, or remove them with --rm.`,
		Examples: []string{
			"corpus",
			"corpus 0H4K",
			"corpus --rm 0H4K 1BX2",
		},
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execCorpus(io, cfg, fs, args)
		},
	}
}

func execCorpus(io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	remove, _ := fs.GetBool("rm")

	if len(args) == 0 {
		if remove {
			return errors.New("--rm needs at least one id")
		}

		return listCorpus(io, cfg.CorpusDirAbs)
	}

	for _, id := range args {
		if remove {
			entry, err := corpus.Load(cfg.CorpusDirAbs, id)
			if err != nil {
				return err
			}

			removeErr := corpus.Remove(cfg.CorpusDirAbs, entry.ID)
			if removeErr != nil {
				return removeErr
			}

			io.Println("removed", entry.ID)

			continue
		}

		entry, err := corpus.Load(cfg.CorpusDirAbs, id)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("encode entry: %w", err)
		}

		io.Println(string(data))
	}

	return nil
}

func listCorpus(io *IO, dir string) error {
	entries, err := listEntries(io, dir)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		io.Println("corpus is empty")

		return nil
	}

	for _, e := range entries {
		io.Printf("%s  %s  %s/%s seed=%d case=%d\n", e.ID, e.SavedAt.Format("2006-01-02 15:04:05"), e.Suite, e.Relation, e.Seed, e.Case)
	}

	return nil
}

// listEntries lists the corpus and turns every unreadable entry into a
// warning, so one bad file does not hide the rest.
func listEntries(io *IO, dir string) ([]corpus.Entry, error) {
	entries, invalid, err := corpus.List(dir)
	if err != nil {
		return nil, err
	}

	for _, e := range invalid {
		io.Warn(e.Error(), "fix or delete the file in "+dir)
	}

	return entries, nil
}
