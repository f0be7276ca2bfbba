package cli_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mrsuite/internal/cli"
)

func Test_Run_Passes_When_Suite_Named(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("run", "quicksort", "--cases", "30", "--seed", "5")

	require.Len(t, strings.Split(stdout, "\n"), 1)
	assert.True(t, strings.HasPrefix(stdout, "quicksort "), stdout)
	cli.AssertContains(t, stdout, " ok ")
	cli.AssertContains(t, stdout, "cases=30 seed=5")
}

func Test_Run_Runs_Every_Suite_When_None_Named(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mrcheck.json", `{"cases": 15}`)

	stdout := c.MustRun("run")

	lines := strings.Split(stdout, "\n")
	require.Len(t, lines, 8)

	for _, line := range lines {
		cli.AssertContains(t, line, " ok ")
		cli.AssertContains(t, line, "cases=15 seed=1")
	}
}

func Test_Run_Leaves_Out_Skipped_Suites_Unless_Named(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mrcheck.json", `{"cases": 5, "suites": {"dijkstra": {"skip": true}}}`)

	stdout := c.MustRun("run")
	cli.AssertNotContains(t, stdout, "dijkstra")

	stdout = c.MustRun("run", "dijkstra")
	cli.AssertContains(t, stdout, "dijkstra")
}

func Test_Run_Uses_Suite_Overrides_When_Configured(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mrcheck.json", `{"suites": {"heapsort": {"cases": 7, "relations": ["reverse"]}}}`)

	stdout := c.MustRun("run", "heapsort")
	cli.AssertContains(t, stdout, "checked=7 skipped=0 cases=7")
}

func Test_Run_Filters_Relations_Across_Suites_When_Relation_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("run", "--cases", "10", "--relation", "permute")

	cli.AssertContains(t, stdout, "quicksort")
	cli.AssertContains(t, stdout, "heapsort")
	cli.AssertContains(t, stdout, "firstmissing")
	cli.AssertNotContains(t, stdout, "binarysearch")
	cli.AssertNotContains(t, stdout, "regions")
}

func Test_Run_Fails_When_Arguments_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "unknown suite", args: []string{"run", "bogosort"}, wantErr: "unknown suite: bogosort"},
		{name: "unknown relation", args: []string{"run", "quicksort", "-r", "teleport"}, wantErr: `no selected suite has relation "teleport"`},
		{name: "zero cases", args: []string{"run", "--cases", "0"}, wantErr: "--cases must be positive"},
		{name: "negative limit", args: []string{"run", "--max-violations=-1"}, wantErr: "--max-violations must be non-negative"},
		{name: "empty report", args: []string{"run", "--report="}, wantErr: "--report cannot be empty"},
		{
			name:    "config relation",
			file:    `{"suites": {"regions": {"relations": ["teleport"]}}}`,
			args:    []string{"run", "regions"},
			wantErr: "config for suite regions",
		},
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

func Test_Run_Writes_Report_When_Report_Flag_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("run", "editdistance", "keylock", "--cases", "12", "--report", "out/report.json")

	var doc struct {
		RunID  string `json:"run_id"`
		Seed   uint64 `json:"seed"`
		Suites []struct {
			Suite string `json:"suite"`
			Cases int    `json:"cases"`
			Stats []struct {
				Relation string `json:"relation"`
				Checked  int    `json:"checked"`
			} `json:"stats"`
		} `json:"suites"`
	}

	require.NoError(t, json.Unmarshal([]byte(c.ReadFile("out/report.json")), &doc))

	assert.Len(t, doc.RunID, 36)
	assert.Equal(t, uint64(1), doc.Seed)
	require.Len(t, doc.Suites, 2)
	assert.Equal(t, "editdistance", doc.Suites[0].Suite)
	assert.Equal(t, "keylock", doc.Suites[1].Suite)
	assert.Equal(t, 12, doc.Suites[0].Cases)
	assert.NotEmpty(t, doc.Suites[0].Stats)
}

func Test_Run_Is_Deterministic_When_Seed_Repeated(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("run", "regions", "--cases", "20", "--seed", "11", "--report", "a.json")
	c.MustRun("run", "regions", "--cases", "20", "--seed", "11", "--report", "b.json")

	stats := func(path string) any {
		var doc struct {
			Suites []struct {
				Stats any `json:"stats"`
			} `json:"suites"`
		}

		require.NoError(t, json.Unmarshal([]byte(c.ReadFile(path)), &doc))

		return doc.Suites[0].Stats
	}

	assert.Equal(t, stats("a.json"), stats("b.json"))
}

func Test_Run_Stops_And_Fails_When_Interrupted(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".mrcheck.json", `{"cases": 50000000}`)

	sigCh := make(chan os.Signal, 1)

	go func() {
		time.Sleep(200 * time.Millisecond)
		sigCh <- os.Interrupt
	}()

	start := time.Now()
	stdout, stderr, code := c.RunWithSignals(sigCh, "run", "dijkstra", "regions", "--report", "report.json")
	elapsed := time.Since(start)

	assert.Equal(t, 1, code)
	assert.Less(t, elapsed, 30*time.Second)

	require.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 1)
	assert.True(t, strings.HasPrefix(stdout, "dijkstra "), stdout)
	cli.AssertContains(t, stdout, " CANCELED ")
	cli.AssertNotContains(t, stdout, "regions")
	cli.AssertContains(t, stderr, "error: "+cli.ErrCanceled.Error())

	// The report is still written and records the cancel.
	var doc struct {
		Canceled bool `json:"canceled"`
		Suites   []struct {
			Cases    int  `json:"cases"`
			Canceled bool `json:"canceled"`
		} `json:"suites"`
	}

	require.NoError(t, json.Unmarshal([]byte(c.ReadFile("report.json")), &doc))
	assert.True(t, doc.Canceled)
	require.Len(t, doc.Suites, 1)
	assert.True(t, doc.Suites[0].Canceled)
	assert.Less(t, doc.Suites[0].Cases, 50000000)
}
