/*
Package economy provides the building blocks of the simulated closed
economy: resource kinds, per-entity ledgers, the capability contracts a
facility can expose to the scheduler (Storage / Producer / Consumer), the
facility registry, and the concrete warehouse, production facility and
carrier used by the demo and the tests.

The scheduler core (logistics, tasks, reserve) depends only on the types
in this package, never on the concrete facilities.
*/
package economy

import "fmt"

// =============================================================================
// RESOURCE KIND - One fungible good in the closed economy
// =============================================================================

// ResourceKind identifies a fungible good. The set is finite and known at
// compile time.
type ResourceKind int

const (
	Wood ResourceKind = iota
	Wheat
	Bread
	Stone
	IronOre
	Tools

	numKinds
)

var kindNames = [...]string{
	Wood:    "wood",
	Wheat:   "wheat",
	Bread:   "bread",
	Stone:   "stone",
	IronOre: "iron_ore",
	Tools:   "tools",
}

func (k ResourceKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k ResourceKind) Valid() bool { return k >= 0 && k < numKinds }

// Kinds returns all resource kinds, in declaration order.
func Kinds() []ResourceKind {
	out := make([]ResourceKind, numKinds)
	for i := range out {
		out[i] = ResourceKind(i)
	}
	return out
}

// ParseKind converts a kind name back to its ResourceKind.
func ParseKind(name string) (ResourceKind, error) {
	for i, n := range kindNames {
		if n == name {
			return ResourceKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
