package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/suites"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal on it cancels the running command; suite runs
// stop between cases and report what they checked so far.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < minArgs {
		printUsage(out, commands(nil, nil))

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, commands(nil, nil))

		return 0
	}

	// Load and validate config
	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		Env:             env,
		KnownSuites:     suites.Names(),
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return dispatch(ctx, NewIO(out, errOut), commands(&cfg, in), flags.remaining)
}

// dispatch runs the command named by args[0]. Unknown commands print the
// usage to stderr.
func dispatch(ctx context.Context, o *IO, cmds []*Command, args []string) int {
	name := args[0]

	for _, cmd := range cmds {
		if cmd.Name() != name {
			continue
		}

		code := cmd.Run(ctx, o, args[1:])

		// Finish handles warnings and exit code
		return max(code, o.Finish())
	}

	o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))

	var buf strings.Builder
	printUsage(&buf, cmds)
	o.ErrPrintln(strings.TrimRight(buf.String(), "\n"))

	return 1
}

// commands returns a fresh set of commands. FlagSets keep parsed state, so
// every dispatch needs its own set.
func commands(cfg *config.Config, in io.Reader) []*Command {
	return []*Command{
		ListCmd(cfg),
		RunCmd(cfg),
		ReplayCmd(cfg),
		CorpusCmd(cfg),
		PrintConfigCmd(cfg),
		ShellCmd(cfg, in),
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(writer io.Writer, cmds []*Command) {
	fprintln(writer, `mrcheck - metamorphic relation checks for classic algorithms

Usage: mrcheck [options] <command> [args]

Options:
  -C, --cwd <dir>    Run as if started in <dir>
  -c, --config       Use specified config file

Commands:`)

	for _, cmd := range cmds {
		fprintln(writer, cmd.HelpLine())
	}
}
