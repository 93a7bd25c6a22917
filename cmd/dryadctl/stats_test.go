package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dryad/arena"
)

func TestStatsCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		return runStats(testSourcePath(t, "prog.dy"), config{})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"Program Statistics:",
		"Total Nodes: 28",
		"Name: 8 (28.6%)",
		"Distinct Names: 4",
		"Common Subexpressions:",
	})
}

func TestStatsCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	defer resetFlags()

	path := testSourcePath(t, "prog.dy")
	output, err := captureOutput(t, func() error {
		return runStats(path, config{BlockSize: 1024})
	})
	require.NoError(t, err)

	var stats ProgramStats
	assertJSON(t, output, &stats)
	assert.Equal(t, path, stats.File)
	assert.Equal(t, 28, stats.Total)
	assert.Equal(t, 8, stats.Nodes["Name"])
	assert.Equal(t, 1024, stats.Arena.BlockSize)
	assert.Equal(t, 4, stats.Symbols.Symbols)
	assert.Equal(t, stats.CSE.Expressions-stats.CSE.Unique, stats.CSE.Duplicates)
	assert.Positive(t, stats.CSE.Duplicates)
}

func TestStatsCommand_Mmap(t *testing.T) {
	resetFlags()
	jsonOut = true
	defer resetFlags()

	output, err := captureOutput(t, func() error {
		return runStats(testSourcePath(t, "prog.dy"), config{Mmap: true})
	})
	if errors.Is(err, arena.ErrMmapUnsupported) {
		t.Skip("mmap not supported on this platform")
	}
	require.NoError(t, err)

	var stats ProgramStats
	assertJSON(t, output, &stats)
	assert.Equal(t, 28, stats.Total)
	assert.Positive(t, stats.Arena.Blocks)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "16.0 KB", formatBytes(16*1024))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "999", formatNumber(999))
}
