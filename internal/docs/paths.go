package docs

// AllSlugs returns every indexed slug as path segments, in traversal order,
// for static pre-generation. The root document yields an empty slice.
func AllSlugs(idx *Index) [][]string {
	slugs := idx.Slugs()
	out := make([][]string, 0, len(slugs))
	for _, slug := range slugs {
		out = append(out, SplitSlug(slug))
	}
	return out
}
