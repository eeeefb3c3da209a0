package constraint

import "fmt"

// Resolver looks up named schemas at validation time. A nil resolver is
// treated as an empty one, so every reference fails to resolve.
type Resolver interface {
	Lookup(name string) (Node, bool)
}

// Registry is the built-in Resolver: a name-to-node map. Register all
// schemas up front, then treat the registry as frozen; it may be shared by
// any number of concurrent validations as long as no Register call races
// with them.
type Registry struct {
	nodes map[string]Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: map[string]Node{}}
}

// Register binds a name to a node. Re-registering an existing name is an
// error; forward references from already-registered nodes are fine because
// resolution is lazy.
func (r *Registry) Register(name string, n Node) error {
	if n == nil {
		return fmt.Errorf("constraint: register %q: nil node", name)
	}
	if _, exists := r.nodes[name]; exists {
		return fmt.Errorf("constraint: duplicate registration of %q", name)
	}
	r.nodes[name] = n
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, n Node) {
	if err := r.Register(name, n); err != nil {
		panic(err)
	}
}

// Lookup implements Resolver.
func (r *Registry) Lookup(name string) (Node, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.nodes[name]
	return n, ok
}

// Len reports the number of registered schemas.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.nodes)
}
