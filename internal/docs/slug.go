package docs

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// RootSlug addresses the root document when no path segments are supplied.
	RootSlug = ""
	// RootIndexSlug is the literal slug tried when the root lookup misses.
	RootIndexSlug = "readme"
)

// DefaultIndexNames are the base names (without extension) that act as a
// directory's own document. Matching is case-insensitive.
var DefaultIndexNames = []string{"README", "index", "_index"}

// slugger normalizes relative paths into slugs. It is not safe for
// concurrent use because cases.Caser carries state.
type slugger struct {
	lower      cases.Caser
	indexNames []string
	keepIndex  bool
}

func newSlugger(indexNames []string, keepIndex bool) *slugger {
	return &slugger{
		lower:      cases.Lower(language.Und),
		indexNames: indexNames,
		keepIndex:  keepIndex,
	}
}

// SlugFor computes the slug for a path relative to the content root using the
// default index names.
func SlugFor(relPath string) (slug string, isIndex bool) {
	return newSlugger(DefaultIndexNames, false).slug(relPath)
}

func (s *slugger) slug(relPath string) (string, bool) {
	p := filepath.ToSlash(relPath)
	p = strings.TrimSuffix(p, path.Ext(p))
	p = strings.Trim(p, "/")

	segments := strings.Split(p, "/")
	isIndex := false
	if !s.keepIndex && s.isIndexName(segments[len(segments)-1]) {
		segments = segments[:len(segments)-1]
		isIndex = true
	}

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		out = append(out, s.segment(seg))
	}
	return strings.Join(out, "/"), isIndex
}

func (s *slugger) isIndexName(name string) bool {
	for _, n := range s.indexNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// segment lowercases a path segment and collapses whitespace runs into "-".
func (s *slugger) segment(seg string) string {
	return strings.Join(strings.FieldsFunc(s.lower.String(seg), unicode.IsSpace), "-")
}

// JoinSlug joins path segments into a slug.
func JoinSlug(segments []string) string {
	return strings.Join(segments, "/")
}

// SplitSlug splits a slug into segments; the root slug yields an empty slice.
func SplitSlug(slug string) []string {
	if slug == RootSlug {
		return []string{}
	}
	return strings.Split(slug, "/")
}

// ParentSlug returns the slug of the containing directory.
func ParentSlug(slug string) string {
	if i := strings.LastIndexByte(slug, '/'); i >= 0 {
		return slug[:i]
	}
	return RootSlug
}

// BaseName returns the last segment of a slug.
func BaseName(slug string) string {
	return slug[strings.LastIndexByte(slug, '/')+1:]
}

// Humanize turns a path segment such as "quick-start" into "Quick start".
func Humanize(name string) string {
	name = strings.TrimLeft(name, "_")
	name = strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	}), " ")
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
