package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := writeSource(t, "dryadctl.toml", []byte(`
block_size = 1024
mmap = true
normalize = true
encoding = "windows-1252"
`))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config{BlockSize: 1024, Mmap: true, Normalize: true, Encoding: "windows-1252"}, cfg)

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config{}, cfg)

	bad := writeSource(t, "bad.toml", []byte("colour = 1\n"))
	_, err = loadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "colour"`)

	_, err = loadConfig(writeSource(t, "broken.toml", []byte("block_size = \n")))
	assert.Error(t, err)
}

func TestReadSource_Encodings(t *testing.T) {
	// "café" in a single-byte code page.
	path := writeSource(t, "latin.dy", []byte("let caf\xe9 = 1;"))

	for _, enc := range []string{"windows-1252", "ISO-8859-1", "latin1"} {
		src, err := readSource(path, enc)
		require.NoError(t, err, enc)
		assert.Equal(t, "let café = 1;", string(src), enc)
	}

	src, err := readSource(path, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("let caf\xe9 = 1;"), src)

	_, err = readSource(path, "ebcdic")
	assert.ErrorContains(t, err, `unsupported encoding "ebcdic"`)

	_, err = readSource(path+".missing", "")
	assert.ErrorContains(t, err, "failed to open source")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	resetFlags()
	defer resetFlags()

	source := writeSource(t, "latin.dy", []byte("let caf\xe9 = 41;\nprint caf\xe9 + 1;\n"))
	cfgPath := writeSource(t, "dryadctl.toml", []byte("normalize = true\nencoding = \"latin1\"\n"))

	rootCmd.SetArgs([]string{"eval", "--config", cfgPath, source})
	output, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assert.Equal(t, "42\n", output)
}
