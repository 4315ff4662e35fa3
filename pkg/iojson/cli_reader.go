package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FileReader decodes a command input of type T from the file named by its
// flag, or from stdin when the flag is unset. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
type FileReader[T any] struct {
	Usage string

	fileFlagValue string
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	usage := fr.Usage
	if usage == "" {
		usage = "path to JSON or YAML file (reads JSON from stdin if not provided)"
	}
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       usage,
		Destination: &fr.fileFlagValue,
	}
}

// Set points the reader at path, as if it had been given on the flag.
func (fr *FileReader[T]) Set(path string) {
	fr.fileFlagValue = path
}

// Provided reports whether a file was named.
func (fr *FileReader[T]) Provided() bool {
	return fr.fileFlagValue != ""
}

// Read decodes the input.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	if fr.fileFlagValue == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		return Decode[T](os.Stdin, false)
	}

	f, err := os.Open(fr.fileFlagValue)
	if err != nil {
		return input, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode[T](f, isYAML(fr.fileFlagValue))
}

// Decode reads a single document of type T from r.
func Decode[T any](r io.Reader, asYAML bool) (T, error) {
	var input T
	if asYAML {
		if err := yaml.NewDecoder(r).Decode(&input); err != nil {
			return input, fmt.Errorf("decode YAML: %w", err)
		}
		return input, nil
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
