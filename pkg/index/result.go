package index

// Result is the sum type produced at every step of the indexer's descent:
// either exactly One citable node, or Many sibling nodes hoisted up because
// their immediate parent was not itself citable.
type Result struct {
	one  *Node
	many []*Node
}

// One wraps a single resolved node.
func One(n *Node) Result {
	return Result{one: n}
}

// Many wraps a flattened list of hoisted nodes.
func Many(nodes []*Node) Result {
	return Result{many: nodes}
}

// IsMany reports whether the result is a hoisted Many, whatever its length
// (zero, one, or more nodes).
func (r Result) IsMany() bool {
	return r.one == nil
}

// Nodes returns the result's nodes regardless of shape.
func (r Result) Nodes() []*Node {
	if r.one != nil {
		return []*Node{r.one}
	}

	return r.many
}

// Single returns the result's node and true if it is a One; otherwise a
// nil node and false.
func (r Result) Single() (*Node, bool) {
	if r.one != nil {
		return r.one, true
	}

	return nil, false
}
