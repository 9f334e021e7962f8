package nav

// Leaf is a document entry in the flattened navigation order.
type Leaf struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Order *float64 `json:"order,omitempty"`
}

// Pager holds the neighbours of a document; either side may be nil.
type Pager struct {
	Previous *Leaf `json:"previous"`
	Next     *Leaf `json:"next"`
}

// Flatten returns the tree's leaves in pre-order: a category's children are
// visited in their established order, descending into sub-categories as
// they are met.
func Flatten(root *Node) []Leaf {
	var out []Leaf
	if root == nil {
		return out
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			out = append(out, Leaf{Slug: n.Slug, Title: n.Title, Order: n.Order})
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// Neighbors returns the leaves before and after slug in the flattened order.
// An unknown slug yields an empty Pager.
func Neighbors(root *Node, slug string) Pager {
	return NeighborsIn(Flatten(root), slug)
}

// NeighborsIn is Neighbors over an already flattened sequence.
func NeighborsIn(flat []Leaf, slug string) Pager {
	for i := range flat {
		if flat[i].Slug != slug {
			continue
		}
		var p Pager
		if i > 0 {
			prev := flat[i-1]
			p.Previous = &prev
		}
		if i+1 < len(flat) {
			next := flat[i+1]
			p.Next = &next
		}
		return p
	}
	return Pager{}
}
