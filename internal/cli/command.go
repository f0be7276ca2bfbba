package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mrsuite/internal/suites"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	// A bool flag named "verbose" switches the IO into verbose mode.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "mrcheck" in help.
	// Includes the command name and arguments/flags.
	// Examples: "run [suite...] [flags]", "list [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Examples are full command lines shown at the end of the help.
	Examples []string

	// NoArgs rejects positional arguments before Exec runs.
	NoArgs bool

	// TakesSuites lists the suite names in the help, for commands whose
	// arguments are suites.
	TakesSuites bool

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "mrcheck <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: mrcheck", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.TakesSuites {
		o.Println()
		o.Println("Suites:", strings.Join(suites.Names(), ", "))
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}

	if len(c.Examples) > 0 {
		o.Println()
		o.Println("Examples:")

		for _, ex := range c.Examples {
			o.Println("  mrcheck", ex)
		}
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err == nil && c.NoArgs && c.Flags.NArg() > 0 {
		err = fmt.Errorf("%s takes no arguments, got %q", c.Name(), c.Flags.Args())
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)
		return 1
	}

	if verbose, lookupErr := c.Flags.GetBool("verbose"); lookupErr == nil {
		o.SetVerbose(verbose)
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	return 0
}
