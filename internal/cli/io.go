package cli

import (
	"fmt"
	"io"
	"strings"
)

// IO handles command output with warning visibility.
//
// Results go to stdout, errors and warnings to stderr. Detail output (the
// inputs and outputs behind a violation) is only written in verbose mode,
// which [Command.Run] turns on when the command has a set --verbose flag.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
	verbose  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Fresh returns an IO writing to the same streams with no collected
// warnings. The shell uses one per input line.
func (o *IO) Fresh() *IO {
	return &IO{out: o.out, errOut: o.errOut, verbose: o.verbose}
}

// SetVerbose turns detail output on or off.
func (o *IO) SetVerbose(verbose bool) {
	o.verbose = verbose
}

// Verbose reports whether detail output is on.
func (o *IO) Verbose() bool {
	return o.verbose
}

// Warn adds an actionable warning.
//
// Parameters:
//   - issue: what went wrong
//   - action: what the user should do about it
//
// Warnings are printed to stderr at both the START and END of output, so a
// long run report piped through head or tail still shows them. Any warning
// makes the command exit 1, even when every relation held.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, action))
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Detail writes text to stdout with every line indented by depth spaces,
// but only in verbose mode.
func (o *IO) Detail(depth int, text string) {
	if !o.verbose {
		return
	}

	prefix := strings.Repeat(" ", depth)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for _, line := range lines {
		o.Println(prefix + line)
	}
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	// Always print at end
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 1 {
		_, _ = fmt.Fprintf(o.errOut, "%d warnings\n", len(o.warnings))
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}
