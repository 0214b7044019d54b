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
	"gopkg.in/yaml.v3"

	"sentinel-portal/memo"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseMemo_TextFromStdin(t *testing.T) {
	out, err := execute(t, "Regulation: MAS Notice 626. Reason: casino transfers.")
	require.NoError(t, err)

	reason := strings.Index(out, "Reason:")
	regulation := strings.Index(out, "Regulation:")
	require.GreaterOrEqual(t, reason, 0)
	require.GreaterOrEqual(t, regulation, 0)
	assert.Less(t, reason, regulation, "projected order puts Reason first")
	assert.Contains(t, out, "casino transfers.")
}

func TestParseMemo_JSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("Recommendation:\nFund A\n\nFund B\n"), 0o600))

	out, err := execute(t, "", "--kind", "advisory", "--bullets", "--format", "json", path)
	require.NoError(t, err)

	var got []memo.Rendered
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Fund A", "Fund B"}, got[0].Bullets)
}

func TestParseMemo_RawYAML(t *testing.T) {
	out, err := execute(t, "Regulation: x. Reason: y.", "--raw", "--format", "yaml")
	require.NoError(t, err)

	var got []memo.Section
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, []memo.Section{
		{Label: memo.LabelRegulation, Content: "x."},
		{Label: memo.LabelReason, Content: "y."},
	}, got)
}

func TestParseMemo_EmptyInput(t *testing.T) {
	out, err := execute(t, "  \n", "--kind", "advisory")
	require.NoError(t, err)
	assert.Contains(t, out, "Run Sentinel on a low risk client to view products.")
}

func TestParseMemo_BadFlags(t *testing.T) {
	_, err := execute(t, "x", "--kind", "legal")
	assert.ErrorIs(t, err, memo.ErrUnknownKind)

	_, err = execute(t, "x", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read memo")
}
