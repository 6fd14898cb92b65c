package index

import "errors"

// ErrNodeIndexing indicates the indexer produced a hoisted list of nodes
// (of any length, including one or none) where a single citable root
// node was expected, e.g. when the subtree's root has no citable role or
// no xml:id.
var ErrNodeIndexing = errors.New("node indexing error: expected a single citable node")
