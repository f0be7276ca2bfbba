package cli_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mrsuite/internal/cli"
)

func Test_Run_Prints_Usage_When_No_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun()

	cli.AssertContains(t, stdout, "Usage: mrcheck [options] <command> [args]")

	for _, name := range []string{"list", "run", "replay", "corpus", "print-config", "shell"} {
		cli.AssertContains(t, stdout, "  "+name)
	}
}

func Test_Run_Prints_Usage_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--help")
	cli.AssertContains(t, stdout, "Commands:")
}

func Test_Run_Fails_When_Command_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Run_Fails_When_Global_Flag_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown", args: []string{"--nope", "list"}, want: "unknown flag: --nope"},
		{name: "config without value", args: []string{"-c"}, want: "flag requires an argument: -c"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(testCase.args...)
			cli.AssertContains(t, stderr, testCase.want)
		})
	}
}

func Test_Command_Prints_Help_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("run", "--help")

	cli.AssertContains(t, stdout, "Usage: mrcheck run [suite...] [flags]")
	cli.AssertContains(t, stdout, "--max-violations")
}

func Test_Command_Help_Lists_Suites_And_Examples_When_Command_Takes_Suites(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("run", "--help")
	cli.AssertContains(t, stdout, "Suites: binarysearch, quicksort, heapsort, editdistance, firstmissing, dijkstra, keylock, regions")
	cli.AssertContains(t, stdout, "Examples:\n  mrcheck run quicksort heapsort --cases 5000")

	stdout = c.MustRun("replay", "--help")
	cli.AssertNotContains(t, stdout, "Suites:")
	cli.AssertContains(t, stdout, "mrcheck replay --all --prune")
}

func Test_Command_Fails_When_No_Args_Command_Gets_Arguments(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, name := range []string{"list", "print-config", "shell"} {
		_, stderr, code := c.Run(name, "extra")

		assert.Equal(t, 1, code, name)
		cli.AssertContains(t, stderr, "error: "+name+` takes no arguments, got ["extra"]`)
	}
}

func Test_Command_Fails_With_Help_When_Flag_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, code := c.Run("list", "--bogus")

	assert.Equal(t, 1, code)
	cli.AssertContains(t, stderr, "error: unknown flag: --bogus")
}

func Test_List_Shows_All_Suites_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("list")

	lines := strings.Split(stdout, "\n")
	require.Len(t, lines, 8)

	want := []string{"binarysearch", "quicksort", "heapsort", "editdistance", "firstmissing", "dijkstra", "keylock", "regions"}
	for i, name := range want {
		assert.True(t, strings.HasPrefix(lines[i], name), "line %d = %q", i, lines[i])
	}

	cli.AssertNotContains(t, stdout, "append-larger")
}

func Test_List_Shows_Relations_When_Flag_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("list", "--relations")

	cli.AssertContains(t, stdout, "  append-larger")
	cli.AssertContains(t, stdout, "  agrees-with-heapsort")
	cli.AssertContains(t, stdout, "  open-border-cell")
}

func Test_List_Marks_Skipped_Suites_When_Configured(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mrcheck.json", `{"suites": {"dijkstra": {"skip": true}}}`)

	stdout := c.MustRun("list")
	cli.AssertContains(t, stdout, "(skipped)")
}

func Test_Print_Config_Shows_Defaults_When_No_Files(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"cases": 200`)
	cli.AssertContains(t, stdout, "effective_cwd="+c.Dir)
	cli.AssertContains(t, stdout, "corpus_dir="+c.CorpusDir())
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_Shows_Sources_When_Files_Loaded(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".xdg/mrcheck/config.json", `{"seed": 9}`)
	c.WriteFile(".mrcheck.json", `{
		// comments are allowed
		"corpus_dir": "found",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"seed": 9`)
	cli.AssertContains(t, stdout, "corpus_dir="+filepath.Join(c.Dir, "found"))
	cli.AssertContains(t, stdout, "global_config="+filepath.Join(c.Dir, ".xdg", "mrcheck", "config.json"))
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".mrcheck.json"))
}

func Test_Config_Errors_Fail_Every_Command_When_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "explicit missing", args: []string{"-c", "nonexistent.json", "print-config"}, wantErr: "config file not found"},
		{name: "syntax", file: `{invalid json}`, args: []string{"list"}, wantErr: "invalid config file"},
		{name: "unknown suite", file: `{"suites": {"bogosort": {}}}`, args: []string{"list"}, wantErr: "unknown suite: bogosort"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			if testCase.file != "" {
				c.WriteFile(".mrcheck.json", testCase.file)
			}

			stderr := c.MustFail(testCase.args...)
			cli.AssertContains(t, stderr, testCase.wantErr)
		})
	}
}
