package constraint

// Children returns the direct child nodes of n in declaration order. Leaf
// nodes return nil. References are opaque here; resolve them through a
// Resolver if the walk should cross them.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *ObjectNode:
		out := make([]Node, 0, len(t.Fields)+1)
		for _, f := range t.Fields {
			if f.Schema != nil {
				out = append(out, f.Schema)
			}
		}
		if t.Additional.Mode == AdditionalSchema && t.Additional.Node != nil {
			out = append(out, t.Additional.Node)
		}
		return out
	case *SequenceNode:
		if t.Item != nil {
			return []Node{t.Item}
		}
		return nil
	case *CompositeNode:
		return t.Children
	default:
		return nil
	}
}

// Walk visits n and every descendant depth-first in declaration order.
// Returning false from fn stops the walk.
func Walk(n Node, fn func(Node) bool) {
	walk(n, fn)
}

func walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range Children(n) {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Refs collects the distinct reference names reachable from n without
// resolving them, in first-seen order. Useful for checking that a registry
// covers everything a schema mentions.
func Refs(n Node) []string {
	var out []string
	seen := map[string]struct{}{}
	Walk(n, func(c Node) bool {
		if r, ok := c.(*RefNode); ok {
			if _, dup := seen[r.Name]; !dup {
				seen[r.Name] = struct{}{}
				out = append(out, r.Name)
			}
		}
		return true
	})
	return out
}
