package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/exprlang"
	"github.com/joshuapare/dryad/symbol"
)

// config holds the settings a command runs with. A TOML file provides the
// base values; flags given on the command line override them.
type config struct {
	BlockSize int    `toml:"block_size"`
	Mmap      bool   `toml:"mmap"`
	Normalize bool   `toml:"normalize"`
	Encoding  string `toml:"encoding"`
}

// loadConfig reads path. An empty path yields the zero config.
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// currentConfig merges the config file with the flags set on cmd.
func currentConfig(cmd *cobra.Command) (config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("block-size") {
		cfg.BlockSize = blockSize
	}
	if flags.Changed("mmap") {
		cfg.Mmap = useMmap
	}
	if flags.Changed("normalize") {
		cfg.Normalize = normalize
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encodingName
	}
	printVerbose("Config: block_size=%d mmap=%t normalize=%t encoding=%q\n",
		cfg.BlockSize, cfg.Mmap, cfg.Normalize, cfg.Encoding)
	return cfg, nil
}

var charmaps = map[string]*charmap.Charmap{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// decoderFor returns the decoder for a source encoding, or nil for UTF-8.
func decoderFor(name string) (*encoding.Decoder, error) {
	name = strings.ToLower(name)
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	cm, ok := charmaps[name]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return cm.NewDecoder(), nil
}

// readSource reads a program and converts it to UTF-8.
func readSource(path, enc string) ([]byte, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if dec != nil {
		r = transform.NewReader(f, dec)
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return src, nil
}

// parseFile reads and parses a program with the memory settings of cfg.
// The caller releases the unit.
func parseFile(path string, cfg config) (*exprlang.Unit, error) {
	printVerbose("Reading source: %s\n", path)
	src, err := readSource(path, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	opts := exprlang.Options{
		Arena:   arena.Options{BlockSize: cfg.BlockSize},
		Symbols: symbol.Options{Normalize: cfg.Normalize, Form: norm.NFC},
	}
	if cfg.Mmap {
		res, err := arena.NewMmapResource()
		if err != nil {
			return nil, fmt.Errorf("failed to set up mmap: %w", err)
		}
		opts.Arena.Resource = res
		opts.Symbols.Resource = res
	}

	u, err := exprlang.Parse(path, src, opts)
	if err != nil {
		return nil, err
	}
	printVerbose("Parsed %d statements\n", u.Program.Len())
	return u, nil
}
