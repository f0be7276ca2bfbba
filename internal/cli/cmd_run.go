package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/corpus"
	"github.com/calvinalkan/mrsuite/internal/suites"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// RunCmd returns the run command.
func RunCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.IntP("cases", "n", 0, "Cases per suite (default from config)")
	fs.Uint64P("seed", "s", 0, "Seed for generated inputs (default from config)")
	fs.StringArrayP("relation", "r", nil, "Only check this relation (repeatable)")
	fs.Int("max-violations", 0, "Stop each suite after N violations (0 = no limit)")
	fs.Bool("save", false, "Save violations to the corpus")
	fs.String("report", "", "Write a JSON report to `file`")
	fs.BoolP("verbose", "v", false, "Print inputs and outputs of each violation")

	return &Command{
		Flags: fs,
		Usage: "run [suite...] [flags]",
		Short: "Run suites",
		Long: `Generate cases and check every relation of the named suites.
Without suite names all suites not skipped by config are run.
Exits 1 if any relation is violated.`,
		Examples: []string{
			"run quicksort heapsort --cases 5000",
			"run --relation permute --seed 42 -v",
			"run --save --max-violations 3 --report out/report.json",
		},
		TakesSuites: true,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execRun(ctx, io, cfg, fs, args)
		},
	}
}

type runOptions struct {
	cases         int
	seed          uint64
	relations     []string
	maxViolations int
	save          bool
	reportPath    string
}

// runReport is the document written by --report.
type runReport struct {
	RunID     string      `json:"run_id"`
	StartedAt time.Time   `json:"started_at"`
	Seed      uint64      `json:"seed"`
	Canceled  bool        `json:"canceled,omitempty"`
	Suites    []mr.Report `json:"suites"`
}

func execRun(ctx context.Context, io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	opts, err := parseRunFlags(cfg, fs)
	if err != nil {
		return err
	}

	selected, err := selectSuites(cfg, args)
	if err != nil {
		return err
	}

	plans, err := planRuns(cfg, selected, opts)
	if err != nil {
		return err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	doc := runReport{RunID: runID.String(), StartedAt: time.Now().UTC(), Seed: opts.seed}

	total := 0

	for _, p := range plans {
		report := p.runner.Run(ctx, mr.Options{
			Cases:         p.cases,
			Seed:          opts.seed,
			Relations:     p.relations,
			MaxViolations: opts.maxViolations,
		})

		printReport(io, report)

		if opts.save {
			saveViolations(io, cfg, report, doc.RunID)
		}

		doc.Suites = append(doc.Suites, report)
		total += len(report.Violations)

		if report.Canceled {
			doc.Canceled = true

			break
		}
	}

	if opts.reportPath != "" {
		writeErr := writeRunReport(cfg.ResolvePath(opts.reportPath), doc)
		if writeErr != nil {
			return writeErr
		}
	}

	if doc.Canceled {
		return ErrCanceled
	}

	if total > 0 {
		return fmt.Errorf("%w: %d violation(s) (seed %d)", ErrViolations, total, opts.seed)
	}

	return nil
}

func parseRunFlags(cfg *config.Config, fs *flag.FlagSet) (runOptions, error) {
	opts := runOptions{
		seed:          cfg.SeedValue(),
		maxViolations: cfg.MaxViolations,
	}

	if fs.Changed("cases") {
		opts.cases, _ = fs.GetInt("cases")
		if opts.cases <= 0 {
			return runOptions{}, errors.New("--cases must be positive")
		}
	}

	if fs.Changed("seed") {
		opts.seed, _ = fs.GetUint64("seed")
	}

	if fs.Changed("max-violations") {
		opts.maxViolations, _ = fs.GetInt("max-violations")
		if opts.maxViolations < 0 {
			return runOptions{}, errors.New("--max-violations must be non-negative")
		}
	}

	opts.relations, _ = fs.GetStringArray("relation")
	opts.save, _ = fs.GetBool("save")
	opts.reportPath, _ = fs.GetString("report")

	if fs.Changed("report") && opts.reportPath == "" {
		return runOptions{}, errors.New("--report cannot be empty")
	}

	return opts, nil
}

// selectSuites returns the named suites, or every suite config does not
// skip when names is empty.
func selectSuites(cfg *config.Config, names []string) ([]mr.Runner, error) {
	if len(names) == 0 {
		var selected []mr.Runner

		for _, r := range suites.All() {
			if !cfg.Skipped(r.Info().Name) {
				selected = append(selected, r)
			}
		}

		return selected, nil
	}

	selected := make([]mr.Runner, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		r, ok := suites.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownSuite, name, strings.Join(suites.Names(), ", "))
		}

		if seen[name] {
			continue
		}

		seen[name] = true
		selected = append(selected, r)
	}

	return selected, nil
}

type runPlan struct {
	runner    mr.Runner
	cases     int
	relations []string
}

// planRuns resolves cases and relation filters per suite. With --relation,
// each suite checks the named relations it defines and suites defining
// none of them are left out. A name no selected suite defines is an error.
func planRuns(cfg *config.Config, selected []mr.Runner, opts runOptions) ([]runPlan, error) {
	plans := make([]runPlan, 0, len(selected))
	used := make(map[string]bool, len(opts.relations))

	for _, r := range selected {
		name := r.Info().Name

		p := runPlan{runner: r, cases: cfg.CasesFor(name), relations: cfg.RelationsFor(name)}
		if opts.cases > 0 {
			p.cases = opts.cases
		}

		if len(opts.relations) > 0 {
			p.relations = nil

			for _, rel := range opts.relations {
				if r.Validate([]string{rel}) == nil {
					p.relations = append(p.relations, rel)
					used[rel] = true
				}
			}

			if len(p.relations) == 0 {
				continue
			}
		} else {
			err := r.Validate(p.relations)
			if err != nil {
				return nil, fmt.Errorf("config for suite %s: %w", name, err)
			}
		}

		plans = append(plans, p)
	}

	for _, rel := range opts.relations {
		if !used[rel] {
			return nil, fmt.Errorf("%w: no selected suite has relation %q", mr.ErrUnknownRelation, rel)
		}
	}

	return plans, nil
}

func printReport(io *IO, report mr.Report) {
	status := "ok"

	switch {
	case report.Canceled:
		status = "CANCELED"
	case !report.OK():
		status = fmt.Sprintf("FAIL (%d violation(s))", len(report.Violations))
	}

	skipped := 0
	for _, s := range report.Stats {
		skipped += s.Skipped
	}

	io.Printf("%-14s %s  checked=%d skipped=%d cases=%d seed=%d %s\n",
		report.Suite, status, report.Checked(), skipped, report.Cases, report.Seed, report.Duration.Round(time.Millisecond))

	for _, v := range report.Violations {
		io.Printf("  %s\n", v)

		io.Detail(4, mr.FormatCase(v))
	}

	if report.Truncated {
		io.Println("  (stopped at --max-violations)")
	}
}

func saveViolations(io *IO, cfg *config.Config, report mr.Report, runID string) {
	for _, v := range report.Violations {
		entry, err := corpus.Save(cfg.CorpusDirAbs, v, runID)
		if err != nil {
			io.Warn(fmt.Sprintf("cannot save %s/%s case %d: %v", v.Suite, v.Relation, v.Case, err), "check corpus_dir permissions")

			continue
		}

		io.Printf("  saved %s\n", entry.ID)
	}
}

func writeRunReport(path string, doc runReport) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	data = append(data, '\n')

	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o750)
	if mkdirErr != nil {
		return fmt.Errorf("failed to create report directory: %w", mkdirErr)
	}

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("failed to write report: %w", writeErr)
	}

	return nil
}

// relationNames returns the relation names of r in definition order.
func relationNames(r mr.Runner) []string {
	info := r.Info()

	names := make([]string, 0, len(info.Relations))
	for _, rel := range info.Relations {
		names = append(names, rel.Name)
	}

	return names
}
