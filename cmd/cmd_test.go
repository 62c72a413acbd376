package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cadence/internal/metrics"
	"github.com/abhisek/cadence/internal/store"
)

// harness runs commands against a shared in-memory store, one fresh app per
// invocation, as separate processes would.
type harness struct {
	t   *testing.T
	kv  *store.Memory
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &harness{
		t:   t,
		kv:  store.NewMemory(),
		now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (h *harness) exec(args ...string) (stdout, stderr string, err error) {
	h.t.Helper()
	a := newApp()
	a.kv = h.kv
	a.metrics = metrics.New()
	now := h.now
	a.now = func() time.Time { return now }

	root := newRootCmd(a)
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errb.String(), err
}

func (h *harness) run(args ...string) string {
	h.t.Helper()
	out, stderr, err := h.exec(args...)
	require.NoError(h.t, err, "cadence %s\nstderr: %s", strings.Join(args, " "), stderr)
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "cadence (devel)\n", h.run("version"))
}

func TestTermLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.run("term", "add", "Mitochondrion", "--topic", "Biology", "--definition", "Powerhouse of the cell")
	assert.Contains(t, out, "Added Mitochondrion")
	h.run("term", "add", "Integral")

	out = h.run("term", "list")
	assert.Contains(t, out, "Mitochondrion")
	assert.Contains(t, out, "general")
	assert.Contains(t, out, "2 terms")

	out = h.run("term", "list", "--topic", "biology")
	assert.Contains(t, out, "1 terms")

	out = h.run("term", "rate", "mitochondrion", "5")
	assert.Contains(t, out, "first review")
	assert.Contains(t, out, "interval 14 days")
	assert.Contains(t, out, "repetition 1")

	out = h.run("term", "show", "Mitochondrion")
	assert.Contains(t, out, "Definition:  Powerhouse of the cell")
	assert.Contains(t, out, "Interval:    14 days")
	assert.Contains(t, out, "Repetitions: 1")

	h.now = h.now.AddDate(0, 0, 14)
	out = h.run("term", "rate", "Mitochondrion", "2")
	assert.Contains(t, out, "lapse")
	assert.Contains(t, out, "interval 1 days, ease 2.30, repetition 2")

	h.run("term", "delete", "Integral")
	_, _, err := h.exec("term", "show", "Integral")
	assert.Error(t, err)
}

func TestDue(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.run("due"), "Nothing due")

	h.run("term", "add", "a", "--topic", "Math")
	h.run("term", "add", "b", "--topic", "Math")
	h.run("term", "add", "c", "--topic", "Science")
	assert.Equal(t, "3\n", h.run("due", "--count"))

	h.run("term", "rate", "a", "4")
	assert.Equal(t, "2\n", h.run("due", "--count"))

	out := h.run("due")
	assert.Contains(t, out, "2 terms due, recommended session size 2")
}

func TestDuePublishWithoutNATSLogs(t *testing.T) {
	h := newHarness(t)
	h.run("term", "add", "a")
	h.run("term", "add", "b")

	_, stderr, err := h.exec("due", "--publish", "--count", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, stderr, "items due for review")
	assert.Contains(t, stderr, "count=2")
}

func TestPlan(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"a", "b", "c"} {
		h.run("term", "add", name, "--topic", "Math")
	}
	for _, name := range []string{"x", "y", "z"} {
		h.run("term", "add", name, "--topic", "Science")
	}

	out := h.run("plan", "--seed", "42", "--start")
	assert.Contains(t, out, "6 terms of 6 due")
	assert.Contains(t, out, "context switches")
	assert.Contains(t, out, "Started session")

	assert.Contains(t, h.run("session", "current"), "0 results")
}

func TestSessionFlow(t *testing.T) {
	h := newHarness(t)

	out := h.run("session", "record", "a", "correct", "--topic", "Math")
	assert.Contains(t, out, "No active session")

	out = h.run("session", "start", "--group", "Math:a,b,c", "--group", "Science:x,y,z", "--seed", "7")
	assert.Contains(t, out, "Started session")
	assert.Contains(t, out, "context switches")

	h.run("session", "record", "a", "correct", "--topic", "Math", "--ms", "1000")
	h.run("session", "record", "b", "yes", "--topic", "Math", "--ms", "1000")
	h.run("session", "record", "x", "wrong", "--topic", "Science", "--ms", "1000")

	_, _, err := h.exec("session", "record", "y", "maybe", "--topic", "Science")
	assert.Error(t, err)
	_, _, err = h.exec("session", "record", "y", "correct")
	assert.Error(t, err, "non-term items need a topic")

	out = h.run("session", "current")
	assert.Contains(t, out, "3 results")

	out = h.run("session", "finish")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "Focus on your weaker topics: Science")

	assert.Contains(t, h.run("session", "current"), "No active session")
	assert.Contains(t, h.run("session", "finish"), "No active session")

	out = h.run("session", "history")
	assert.Contains(t, out, "67%")

	out = h.run("stats")
	assert.Contains(t, out, "Sessions:          1")
	assert.Contains(t, out, "Results reviewed:  3")
	assert.Contains(t, out, "1. Math")
}

func TestSessionRecordRatesTerm(t *testing.T) {
	h := newHarness(t)
	h.run("term", "add", "Mitochondrion", "--topic", "Biology")
	h.run("session", "start")

	out := h.run("session", "record", "Mitochondrion", "correct", "--rate", "5")
	assert.Contains(t, out, "Mitochondrion (Biology)")
	assert.Contains(t, out, "first review")

	_, _, err := h.exec("session", "record", "Ribosome", "correct", "--topic", "Biology", "--rate", "3")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	h := newHarness(t)

	out := h.run("settings", "show")
	assert.Contains(t, out, "easeFactor: 2.5")
	assert.Contains(t, out, "contextSwitchFrequency: 3")

	h.run("settings", "set", "interleaving.shuffleIntensity=5", "spacedRepetition.maxInterval=90")
	out = h.run("settings", "show", "--format", "json")
	assert.Contains(t, out, `"shuffleIntensity": 5`)
	assert.Contains(t, out, `"maxInterval": 90`)

	out = h.run("settings", "set", "interleaving.contextSwitchFrequency=12")
	assert.Contains(t, out, "contextSwitchFrequency: 5")

	_, _, err := h.exec("settings", "set", "interleaving.colour=blue")
	assert.Error(t, err)
	_, _, err = h.exec("settings", "set", "interleaving.enabled=perhaps")
	assert.Error(t, err)
	_, _, err = h.exec("settings", "show", "--format", "toml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interleaving:\n  enabled: false\n"), 0o644))
	out = h.run("settings", "import", path)
	assert.Contains(t, out, "enabled: false")
	assert.Contains(t, out, "shuffleIntensity: 5")

	out = h.run("settings", "reset")
	assert.Contains(t, out, "enabled: true")
	assert.Contains(t, out, "maxInterval: 365")
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.run("term", "add", "a")

	_, _, err := h.exec("reset")
	assert.Error(t, err)
	assert.Contains(t, h.run("term", "list"), "1 terms")

	h.run("reset", "--yes")
	assert.Contains(t, h.run("term", "list"), "No terms found")
}

func TestMetricsFlag(t *testing.T) {
	h := newHarness(t)
	h.run("term", "add", "a")

	_, stderr, err := h.exec("term", "rate", "a", "4", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, `cadence_reviews_total{outcome="first"} 1`)
}

func TestInvalidDriver(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.exec("due", "--driver", "mongo")
	assert.Error(t, err)
}

func TestParseGroups(t *testing.T) {
	groups, err := parseGroups([]string{"Math:a, b", "Science:x", "Math:c"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b", "c"}, groups[0].Items)
	assert.Equal(t, []string{"x"}, groups[1].Items)

	_, err = parseGroups([]string{"no-colon"})
	assert.Error(t, err)
	_, err = parseGroups([]string{":a,b"})
	assert.Error(t, err)
}
