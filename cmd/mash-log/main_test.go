package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutArguments(t *testing.T) {
	var stderr bytes.Buffer
	err := run(nil, &stderr)
	assert.ErrorIs(t, err, errUsage)
	for _, c := range commandList {
		assert.Contains(t, stderr.String(), c.name)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"replay", "x.mlog"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), `unknown command "replay"`)
}

func TestRunRequiresOneFile(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"stats"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), "expected one event file")
}

func TestRunBadFlag(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"view", "-bogus", "x.mlog"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunFilterNeedsOutput(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"filter", "x.mlog"}, &stderr)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "-o")
}

func TestRunViewRejectsUnknownLayer(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"view", "-layer", "wire", "x.mlog"}, &stderr)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestRunStatsMissingFile(t *testing.T) {
	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.mlog")
	err := run([]string{"stats", path}, &stderr)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}
