package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a T from the --file flag, or from stdin when the flag
// is empty and stdin is not a terminal.
type FileReader[T any] struct {
	path  string
	stdin io.Reader
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON file (reads stdin when omitted)",
		Destination: &fr.path,
	}
}

// Provided reports whether input is available without prompting.
func (fr *FileReader[T]) Provided() bool {
	if fr.path != "" || fr.stdin != nil {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func (fr *FileReader[T]) Read() (T, error) {
	var out T

	r := fr.stdin
	switch {
	case fr.path != "":
		f, err := os.Open(fr.path)
		if err != nil {
			return out, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case r == nil:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return out, fmt.Errorf("no input: stdin is a terminal, use --file or pipe JSON")
		}
		r = os.Stdin
	}

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}
