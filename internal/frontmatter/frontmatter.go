package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a metadata block.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parsed is the best-effort result of Parse.
type Parsed struct {
	Metadata map[string]any
	Body     []byte
	Format   Format
}

// Parse separates and decodes a leading metadata block.
//
// Parse never fails: content without a block, and content whose block is
// malformed (unterminated, undecodable or not a mapping), yields an empty
// metadata map and the full input as body.
func Parse(content []byte) Parsed {
	block, body, format, err := Split(content)
	if err != nil || format == FormatNone {
		return Parsed{Metadata: map[string]any{}, Body: content}
	}

	var fields map[string]any
	switch format {
	case FormatTOML:
		fields, err = ParseTOML(block)
	default:
		fields, err = ParseYAML(block)
	}
	if err != nil {
		return Parsed{Metadata: map[string]any{}, Body: content}
	}
	return Parsed{Metadata: fields, Body: body, Format: format}
}

// Split separates a `---` (YAML) or `+++` (TOML) delimited block from the body.
//
// If the document does not start with a delimiter, format is FormatNone and
// body is the full input. A leading UTF-8 byte order mark is ignored.
func Split(content []byte) (block []byte, body []byte, format Format, err error) {
	nl := detectNewline(content)
	trimmed := bytes.TrimPrefix(content, utf8BOM)

	for _, candidate := range []struct {
		delim  string
		format Format
	}{{yamlDelimiter, FormatYAML}, {tomlDelimiter, FormatTOML}} {
		block, body, ok, splitErr := splitDelimited(trimmed, candidate.delim, nl)
		if splitErr != nil {
			return nil, nil, FormatNone, splitErr
		}
		if ok {
			return block, body, candidate.format, nil
		}
	}
	return nil, content, FormatNone, nil
}

func splitDelimited(content []byte, delim, nl string) (block []byte, body []byte, had bool, err error) {
	open := []byte(delim + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + delim + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line has no trailing newline.
		if bytes.HasSuffix(content[start:], []byte(nl+delim)) {
			end := len(content) - len(delim)
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(block []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(block)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return normalizeMap(fields), nil
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
func ParseTOML(block []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(block)) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(block, &fields); err != nil {
		return nil, err
	}
	return normalizeMap(fields), nil
}

// normalizeMap rewrites decoded values into shapes every encoder accepts:
// nested maps get string keys and non-finite floats become their string form.
func normalizeMap(fields map[string]any) map[string]any {
	for k, v := range fields {
		fields[k] = normalizeValue(v)
	}
	return fields
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[fmt.Sprint(k)] = normalizeValue(x)
		}
		return out
	case []any:
		for i, x := range t {
			t[i] = normalizeValue(x)
		}
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
		return t
	default:
		return v
	}
}

// ErrMissingClosingDelimiter indicates the document started with a
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// detectNewline reports the newline sequence used by the first line.
func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
