package docs

import (
	"math"
	"strconv"
	"strings"
)

// Metadata is the flat key/value mapping decoded from a document's frontmatter.
// It is never nil for documents produced by Load.
type Metadata map[string]any

// String returns the value for key when it is a non-empty string.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Title returns the declared title, if any.
func (m Metadata) Title() string {
	v, _ := m.String("title")
	return v
}

// Description returns the declared description, if any.
func (m Metadata) Description() string {
	v, _ := m.String("description")
	return v
}

// Order returns the explicit navigation order. The Hugo-style "weight" key is
// honoured when "order" is absent.
func (m Metadata) Order() (float64, bool) {
	for _, key := range []string{"order", "weight"} {
		if v, ok := m[key]; ok {
			return numeric(v)
		}
	}
	return 0, false
}

// numeric converts v to a finite float. NaN and infinities are not orders.
func numeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Document is a single indexed source file.
type Document struct {
	// Slug is the normalized, "/"-joined identifier; the root document has slug "".
	Slug string
	// SourcePath is the file path on disk (root joined with RelativePath).
	SourcePath string
	// RelativePath is the slash-separated path below the content root.
	RelativePath string
	// IsIndex reports whether the file is a directory index (README, index, _index).
	IsIndex bool

	Metadata    Metadata
	Body        string
	Title       string
	Fingerprint string
}

// Segments returns the slug split into path segments. The root slug yields an
// empty, non-nil slice.
func (d *Document) Segments() []string {
	return SplitSlug(d.Slug)
}

// Order returns the document's explicit navigation order, if declared.
func (d *Document) Order() (float64, bool) {
	return d.Metadata.Order()
}
