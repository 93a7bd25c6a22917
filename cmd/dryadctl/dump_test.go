package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestDumpCommand(t *testing.T) {
	tests := []struct {
		name   string
		source string
		events bool
		indent string
		golden string
	}{
		{
			name:   "dump program",
			source: "prog.dy",
			golden: "dump.golden",
		},
		{
			name:   "dump events",
			source: "small.dy",
			events: true,
			indent: ". ",
			golden: "dump_events.golden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			dumpEvents = tt.events
			dumpIndent = tt.indent

			output, err := captureOutput(t, func() error {
				return runDump(testSourcePath(t, tt.source), config{})
			})
			require.NoError(t, err)
			golden.Assert(t, output, tt.golden)
		})
	}
}

func TestDumpCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	dumpEvents = true
	defer resetFlags()

	output, err := captureOutput(t, func() error {
		return runDump(testSourcePath(t, "small.dy"), config{})
	})
	require.NoError(t, err)

	var lines []dumpLine
	assertJSON(t, output, &lines)
	require.Len(t, lines, 12)
	assert.Equal(t, dumpLine{Depth: 0, Event: "enter", Kind: "Program", Label: "Program (2 statements)"}, lines[0])
	assert.Equal(t, dumpLine{Depth: 3, Event: "leaf", Kind: "Name", Label: "Name a"}, lines[6])
	assert.Equal(t, dumpLine{Depth: 0, Event: "exit", Kind: "Program", Label: "Program (2 statements)"}, lines[11])
}

func TestDumpCommand_SyntaxError(t *testing.T) {
	resetFlags()
	path := writeSource(t, "bad.dy", []byte("print (1;"))

	output, err := captureOutput(t, func() error {
		return runDump(path, config{})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.dy:1:9: expected ), found ;")
	assert.Empty(t, output)
}
