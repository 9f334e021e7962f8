// Package nav derives the ordered navigation tree and previous/next paging
// from a document snapshot.
package nav

import (
	"encoding/json"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docengine/internal/docs"
)

// Kind tags a navigation node as a category (directory) or a leaf (document).
type Kind string

const (
	KindCategory Kind = "category"
	KindLeaf     Kind = "leaf"
)

// Node is either a category or a leaf. Categories use PathPrefix and
// Children; leaves use Slug.
type Node struct {
	Kind       Kind
	Name       string
	Title      string
	PathPrefix string
	Slug       string
	Order      *float64
	Children   []*Node

	// index is the category's own document, placed first after sorting.
	index *Node
}

// IsLeaf reports whether the node addresses a document.
func (n *Node) IsLeaf() bool { return n.Kind == KindLeaf }

type leafJSON struct {
	Kind  Kind     `json:"kind"`
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Order *float64 `json:"order,omitempty"`
}

type categoryJSON struct {
	Kind       Kind     `json:"kind"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	PathPrefix string   `json:"pathPrefix"`
	Order      *float64 `json:"order,omitempty"`
	Children   []*Node  `json:"children"`
}

// MarshalJSON emits only the fields that belong to the node's kind.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		return json.Marshal(leafJSON{Kind: n.Kind, Slug: n.Slug, Title: n.Title, Order: n.Order})
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(categoryJSON{
		Kind:       n.Kind,
		Name:       n.Name,
		Title:      n.Title,
		PathPrefix: n.PathPrefix,
		Order:      n.Order,
		Children:   children,
	})
}

// Build groups the snapshot's documents by directory into a tree rooted at a
// category with an empty PathPrefix.
//
// A document whose slug equals a directory prefix (a README or index file)
// becomes that category's first child and lends it its title and order. The
// remaining siblings are ordered by explicit order ascending, then by
// case-insensitive name, then by exact name, with leaves ahead of categories
// on a full tie. The result depends only on the snapshot's contents.
func Build(idx *docs.Index) *Node {
	root := &Node{Kind: KindCategory, PathPrefix: docs.RootSlug}
	categories := map[string]*Node{docs.RootSlug: root}

	var category func(prefix string) *Node
	category = func(prefix string) *Node {
		if c, ok := categories[prefix]; ok {
			return c
		}
		c := &Node{
			Kind:       KindCategory,
			Name:       docs.BaseName(prefix),
			Title:      docs.Humanize(docs.BaseName(prefix)),
			PathPrefix: prefix,
		}
		categories[prefix] = c
		parent := category(docs.ParentSlug(prefix))
		parent.Children = append(parent.Children, c)
		return c
	}

	documents := idx.Documents()
	for _, doc := range documents {
		if doc.Slug != docs.RootSlug {
			category(docs.ParentSlug(doc.Slug))
		}
	}

	for _, doc := range documents {
		leaf := newLeaf(doc)
		if c, ok := categories[doc.Slug]; ok {
			c.index = leaf
			c.Title = leaf.Title
			c.Order = leaf.Order
			continue
		}
		parent := categories[docs.ParentSlug(doc.Slug)]
		parent.Children = append(parent.Children, leaf)
	}

	arrange(root)
	return root
}

func newLeaf(doc *docs.Document) *Node {
	leaf := &Node{
		Kind:  KindLeaf,
		Name:  docs.BaseName(doc.Slug),
		Title: doc.Title,
		Slug:  doc.Slug,
	}
	if o, ok := doc.Order(); ok {
		leaf.Order = &o
	}
	return leaf
}

func arrange(c *Node) {
	sort.SliceStable(c.Children, func(i, j int) bool {
		return less(c.Children[i], c.Children[j])
	})
	if c.index != nil {
		c.Children = append([]*Node{c.index}, c.Children...)
		c.index = nil
	}
	for _, child := range c.Children {
		if !child.IsLeaf() {
			arrange(child)
		}
	}
}

func less(a, b *Node) bool {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
	case a.Order != nil:
		return true
	case b.Order != nil:
		return false
	}
	if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
		return la < lb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.IsLeaf() && !b.IsLeaf()
}
