package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
)

// Format selects the serialization used for outline files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension; anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown outline format %q (want json or yaml)", s)
}

// Decode reads one outline from r.
func Decode(r io.Reader, f Format) (Node, error) {
	var n Node
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&n); err != nil {
			return Node{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml outline")
		}
	default:
		if err := json.NewDecoder(r).Decode(&n); err != nil {
			return Node{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json outline")
		}
	}
	return n, nil
}

// Encode writes root to w.
func Encode(w io.Writer, root Node, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	}
}

// LoadFile reads, normalizes and validates an outline file.
func LoadFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return Node{}, fmt.Errorf("open outline: %w", err)
	}
	defer f.Close()

	n, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return Node{}, fmt.Errorf("%s: %w", path, err)
	}
	n = AssignIDs(n)
	if err := Validate(n); err != nil {
		return Node{}, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
