// Package filter defines the structured predicate tree evaluated by the
// vector index alongside similarity search. The index adapter translates a
// Clause into its native filter representation.
package filter

import "talentmatch/apps/backend/internal/geo"

type Operator string

const (
	OpAnd         Operator = "And"
	OpOr          Operator = "Or"
	OpEqual       Operator = "Equal"
	OpContainsAny Operator = "ContainsAny"
	OpLTE         Operator = "LessThanEqual"
	OpGTE         Operator = "GreaterThanEqual"
)

// Clause is a node in the predicate tree. Leaf nodes carry Path and Value;
// And/Or nodes carry Operands.
type Clause struct {
	Operator Operator
	Path     []string
	Value    any
	Operands []*Clause
}

func And(operands ...*Clause) *Clause {
	return &Clause{Operator: OpAnd, Operands: operands}
}

func Or(operands ...*Clause) *Clause {
	return &Clause{Operator: OpOr, Operands: operands}
}

func Equal(path string, value any) *Clause {
	return &Clause{Operator: OpEqual, Path: []string{path}, Value: value}
}

// ContainsAny matches records whose array field shares at least one value
// with the given set.
func ContainsAny(path string, values ...string) *Clause {
	return &Clause{Operator: OpContainsAny, Path: []string{path}, Value: values}
}

func LTE(path string, value float64) *Clause {
	return &Clause{Operator: OpLTE, Path: []string{path}, Value: value}
}

func GTE(path string, value float64) *Clause {
	return &Clause{Operator: OpGTE, Path: []string{path}, Value: value}
}

// GeoExclusion excludes a record unless at least one of its geo points lies
// outside every box. It rides alongside the structured predicate because the
// per-point quantifier cannot be expressed as an index-side array filter.
type GeoExclusion struct {
	Boxes []geo.BoundingBox
}

// Excludes reports whether a record with the given points should be dropped.
// Records without resolved points are never excluded.
func (g *GeoExclusion) Excludes(points []geo.Point) bool {
	if g == nil || len(g.Boxes) == 0 || len(points) == 0 {
		return false
	}
	for _, p := range points {
		if geo.OutsideAll(p, g.Boxes) {
			return false
		}
	}
	return true
}
