package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/config"
	"github.com/calvinalkan/mrsuite/internal/suites"
)

// ShellCmd returns the shell command.
func ShellCmd(cfg *config.Config, in io.Reader) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive prompt for the other commands",
		Long: `Read commands one per line and run them with the loaded config.
On a terminal the prompt has line editing, history and tab completion.
Otherwise lines are read from stdin until EOF.`,
		NoArgs: true,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			sh := &shell{cfg: cfg, o: o}

			if f, ok := in.(*os.File); ok && isTerminal(f.Fd()) {
				return sh.interactive(ctx)
			}

			if in == nil {
				return errors.New("shell needs stdin")
			}

			return sh.scripted(ctx, in)
		},
	}
}

type shell struct {
	cfg *config.Config
	o   *IO

	// failed counts commands that exited non-zero.
	failed int
}

const shellPrompt = "mrcheck> "

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".mrcheck_history")
}

func (sh *shell) interactive(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(sh.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	defer sh.saveHistory(line)

	sh.o.Println("mrcheck shell. Type 'help' for available commands.")

	for {
		input, err := line.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				sh.o.Println("Bye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if sh.exec(ctx, input) {
			return nil
		}

		if ctx.Err() != nil {
			return ErrCanceled
		}
	}
}

func (sh *shell) scripted(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if sh.exec(ctx, scanner.Text()) {
			break
		}

		if ctx.Err() != nil {
			return ErrCanceled
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if sh.failed > 0 {
		return fmt.Errorf("%d command(s) failed", sh.failed)
	}

	return nil
}

// exec runs one input line. It reports whether the shell should stop.
func (sh *shell) exec(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false
	}

	cmds := commands(sh.cfg, nil)

	switch strings.ToLower(fields[0]) {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		var buf strings.Builder
		for _, cmd := range cmds {
			if cmd.Name() != "shell" {
				_, _ = fmt.Fprintln(&buf, cmd.HelpLine())
			}
		}

		sh.o.Printf("%s  %-30s %s\n", buf.String(), "exit", "Leave the shell")

		return false
	case "shell":
		sh.o.ErrPrintln("error: already in a shell")
		sh.failed++

		return false
	}

	// Every line gets its own IO so warnings are reported per command.
	lineIO := sh.o.Fresh()
	if dispatch(ctx, lineIO, cmds, fields) != 0 {
		sh.failed++
	}

	return false
}

// saveHistory persists command history to disk.
func (sh *shell) saveHistory(line *liner.State) {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}
}

// completer completes command names first, then suite and relation names.
func (sh *shell) completer(input string) []string {
	fields := strings.Fields(input)

	var candidates []string

	if len(fields) <= 1 && !strings.HasSuffix(input, " ") {
		for _, cmd := range commands(sh.cfg, nil) {
			if cmd.Name() != "shell" {
				candidates = append(candidates, cmd.Name())
			}
		}

		candidates = append(candidates, "help", "exit")
	} else {
		candidates = suites.Names()
		for _, r := range suites.All() {
			candidates = append(candidates, relationNames(r)...)
		}
	}

	prefix := ""
	word := input

	if i := strings.LastIndex(input, " "); i >= 0 {
		prefix, word = input[:i+1], input[i+1:]
	}

	var completions []string

	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			completions = append(completions, prefix+c)
		}
	}

	return completions
}
