package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/survey"
)

func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetsListsBuiltins(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "Superheroes")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "not_started")
	assert.Contains(t, out, "0/10")
}

func TestAnswerCheckAndRestart(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "answer", "Superheroes", "q1", "agree")
	require.NoError(t, err)
	assert.Equal(t, "Q1 set to Agree\n", out)

	out, err = run(t, home, "answer", "Superheroes", "Q2", "yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Q2 contradicts Q1")

	out, err = run(t, home, "check", "Superheroes")
	require.ErrorIs(t, err, errInconsistent)
	assert.Contains(t, out, "Superheroes · 2/10 answered")
	assert.Contains(t, out, "Q1 ✗ Q2  contradiction")

	out, err = run(t, home, "check", "Superheroes", "--json")
	require.ErrorIs(t, err, errInconsistent)
	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out[:strings.LastIndex(out, "}")+1]), &report))
	assert.False(t, report.Consistent)
	assert.Equal(t, 2, report.Answered)
	require.Len(t, report.Contradictions, 1)
	assert.Equal(t, "q1", report.Contradictions[0].From)
	assert.Equal(t, catalog.Contradicts, report.Contradictions[0].Kind)

	out, err = run(t, home, "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "in_progress")

	out, err = run(t, home, "restart", "Superheroes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared answers for Superheroes")

	out, err = run(t, home, "check", "Superheroes")
	require.NoError(t, err)
	assert.Contains(t, out, "No contradictions found.")

	logData, err := os.ReadFile(filepath.Join(home, "logs", "truthweb.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "restarted Superheroes")
}

func TestAnswerRejectsBadInput(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, "answer", "Superheroes", "q1", "maybe")
	assert.Error(t, err)

	_, err = run(t, home, "answer", "Superheroes", "Q11", "agree")
	assert.ErrorIs(t, err, survey.ErrUnknownQuestion)

	_, err = run(t, home, "answer", "Nope", "q1", "agree")
	var notFound *catalog.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestWebWritesSVG(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, "answer", "Food", "q1", "agree")
	require.NoError(t, err)

	out, err := run(t, home, "web", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, "Q10")
	assert.Contains(t, out, "contradiction")

	svgPath := filepath.Join(t.TempDir(), "food.svg")
	out, err = run(t, home, "web", "Food", "--svg", svgPath, "--size", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+svgPath)
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `width="400"`)
	assert.Equal(t, 10, strings.Count(string(data), `<g class="node`))
}

func TestParseAgreement(t *testing.T) {
	for _, in := range []string{"agree", "A", " yes ", "y", "true"} {
		v, err := parseAgreement(in)
		require.NoError(t, err, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"disagree", "D", "no", "n", "false"} {
		v, err := parseAgreement(in)
		require.NoError(t, err, in)
		assert.False(t, v, in)
	}
}
