package docs

import "strings"

// Resolve looks up a document by its slug segments.
//
// Empty or absent segments address RootSlug; when that misses, RootIndexSlug
// is tried once before giving up. Any other request is joined with "/" and
// matched exactly and case-sensitively. A false result means "not found" and
// is never an error; segments that are empty or contain "/" never match.
func Resolve(idx *Index, segments []string) (*Document, bool) {
	if len(segments) == 0 {
		if doc, ok := idx.Get(RootSlug); ok {
			return doc, true
		}
		return idx.Get(RootIndexSlug)
	}
	for _, seg := range segments {
		if seg == "" || strings.Contains(seg, "/") {
			return nil, false
		}
	}
	return idx.Get(JoinSlug(segments))
}

// ResolvePath resolves a URL-style path such as "/guide/advanced/".
func ResolvePath(idx *Index, urlPath string) (*Document, bool) {
	p := strings.Trim(urlPath, "/")
	if p == "" {
		return Resolve(idx, nil)
	}
	return Resolve(idx, strings.Split(p, "/"))
}
