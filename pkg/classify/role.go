// Package classify assigns a semantic [Role] to every element of a parsed
// TEI tree. Role assignment is ordered and first-match-wins: an element is
// tested against each role's predicate in a fixed sequence, and the first
// predicate that matches wins, regardless of how many others would also
// match.
package classify

import "github.com/beevik/etree"

// Role is the semantic category assigned to a TEI element.
type Role string

// The fixed, ordered set of roles. Structural is tested first, List last;
// an element matching none of them gets RoleNone, is never a basic leaf,
// and is skipped by the indexer, which hoists its citable descendants.
const (
	RoleStructural Role = "structural"
	RoleMain       Role = "main"
	RoleMarginal   Role = "marginal"
	RolePage       Role = "page"
	RoleAnchor     Role = "anchor"
	RoleList       Role = "list"
	RoleNone       Role = ""
)

// predicate reports whether el should be assigned its role. Predicates are
// expressed directly over the parsed tree instead of as XPath strings, but
// each one still combines a self-pattern (what the element itself looks
// like) with a negative-ancestor-pattern (what disqualifies it because of
// where it sits).
type predicate func(el *etree.Element) bool

// order is the fixed role-assignment sequence.
var order = []struct {
	role Role
	pred predicate
}{
	{RoleStructural, isStructural},
	{RoleMain, isMain},
	{RoleMarginal, isMarginal},
	{RolePage, isPage},
	{RoleAnchor, isAnchor},
	{RoleList, isList},
}

// ElementType returns the Role of el under the fixed predicate order,
// or RoleNone if nothing matches.
func ElementType(el *etree.Element) Role {
	for _, o := range order {
		if o.pred(el) {
			return o.role
		}
	}

	return RoleNone
}
