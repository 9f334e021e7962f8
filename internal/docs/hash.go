package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docengine/internal/frontmatter"
)

// Fingerprint computes the canonical mdfp content fingerprint of a document.
// A stored "fingerprint" field is excluded so the value is stable when
// authors keep a copy of it in their frontmatter.
func Fingerprint(meta Metadata, body string) string {
	fields := make(map[string]any, len(meta))
	for k, v := range meta {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	serialized, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		serialized = nil
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, body)
}

// ComputeIndexHash computes a deterministic hash over every slug and
// document fingerprint in the snapshot. Two snapshots of unchanged content
// hash identically even though their IDs differ.
func ComputeIndexHash(idx *Index) string {
	slugs := idx.Slugs()
	sort.Strings(slugs)

	h := sha256.New()
	if len(slugs) == 0 {
		h.Write([]byte("empty-index"))
	}
	for _, slug := range slugs {
		doc, _ := idx.Get(slug)
		h.Write([]byte(slug))
		h.Write([]byte{'|'})
		h.Write([]byte(doc.Fingerprint))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns ComputeIndexHash for the snapshot, computed on first use.
func (idx *Index) Hash() string {
	idx.hashOnce.Do(func() { idx.hash = ComputeIndexHash(idx) })
	return idx.hash
}
