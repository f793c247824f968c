package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding for a normalized AST.
type Format string

const (
	JSON      Format = "json"
	YAML      Format = "yaml"
	ProtoJSON Format = "protojson"
)

// Formats lists the supported formats in the order shown in usage text.
var Formats = []Format{JSON, YAML, ProtoJSON}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Write encodes v to w. v is a normalized AST or a failure sentinel; both
// are built from JSON-compatible values only. pretty indents json and
// protojson output; YAML is always block style.
func Write(w io.Writer, v any, f Format, pretty bool) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		return enc.Close()
	case ProtoJSON:
		pv, err := structpb.NewValue(v)
		if err != nil {
			return fmt.Errorf("render protojson: %w", err)
		}
		opts := protojson.MarshalOptions{}
		if pretty {
			opts.Multiline = true
			opts.Indent = "  "
		}
		b, err := opts.Marshal(pv)
		if err != nil {
			return fmt.Errorf("render protojson: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	default:
		return fmt.Errorf("unknown format %q", string(f))
	}
}
