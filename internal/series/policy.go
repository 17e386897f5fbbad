package series

import (
	"fmt"
	"strconv"
	"strings"
)

// CollisionPolicy decides how two values landing in the same bucket combine.
type CollisionPolicy int

const (
	// Increment adds the new value to the stored one.
	Increment CollisionPolicy = iota
	// Overwrite replaces the stored value.
	Overwrite
	// Decrement subtracts the new value from the stored one.
	Decrement
	// Ignore keeps the stored value.
	Ignore
)

var collisionNames = map[CollisionPolicy]string{
	Increment: "Increment",
	Overwrite: "Overwrite",
	Decrement: "Decrement",
	Ignore:    "Ignore",
}

func (p CollisionPolicy) String() string {
	if s, ok := collisionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int(p))
}

// Resolve combines the stored value with a colliding one.
func (p CollisionPolicy) Resolve(stored, incoming float64) float64 {
	switch p {
	case Overwrite:
		return incoming
	case Decrement:
		return stored - incoming
	case Ignore:
		return stored
	default:
		return stored + incoming
	}
}

// ParseCollisionPolicy parses a policy name case-insensitively.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	for p, name := range collisionNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return Increment, fmt.Errorf("unknown collision policy %q (want Increment, Overwrite, Decrement or Ignore)", s)
}

// MissingKind selects how a gap is filled.
type MissingKind int

const (
	MissingZero MissingKind = iota
	MissingLast
	MissingAverage
	MissingOne
	MissingFirst
	MissingMin
	MissingMax
	MissingFixed
)

var missingNames = map[MissingKind]string{
	MissingZero:    "zero",
	MissingLast:    "last",
	MissingAverage: "avg",
	MissingOne:     "one",
	MissingFirst:   "first",
	MissingMin:     "min",
	MissingMax:     "max",
	MissingFixed:   "fixed",
}

// MissingPolicy is a gap-fill rule. Fixed carries the constant used by
// MissingFixed.
type MissingPolicy struct {
	Kind  MissingKind
	Fixed float64
}

var (
	FillZero    = MissingPolicy{Kind: MissingZero}
	FillLast    = MissingPolicy{Kind: MissingLast}
	FillAverage = MissingPolicy{Kind: MissingAverage}
)

// FillFixed returns a policy that fills every gap with v.
func FillFixed(v float64) MissingPolicy {
	return MissingPolicy{Kind: MissingFixed, Fixed: v}
}

func (p MissingPolicy) String() string {
	if p.Kind == MissingFixed {
		return "fixed(" + strconv.FormatFloat(p.Fixed, 'g', -1, 64) + ")"
	}
	if s, ok := missingNames[p.Kind]; ok {
		return s
	}
	return fmt.Sprintf("MissingKind(%d)", int(p.Kind))
}

// ParseMissingPolicy parses "zero", "last", "avg" (or "average"), "one",
// "first", "min", "max" and "fixed(N)".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "average" {
		return FillAverage, nil
	}
	if strings.HasPrefix(raw, "fixed(") && strings.HasSuffix(raw, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "fixed("), ")")
		v, err := strconv.ParseFloat(strings.TrimSpace(inner), 64)
		if err != nil {
			return FillZero, fmt.Errorf("invalid fixed missing value %q: %w", s, err)
		}
		return FillFixed(v), nil
	}
	for k, name := range missingNames {
		if k != MissingFixed && raw == name {
			return MissingPolicy{Kind: k}, nil
		}
	}
	return FillZero, fmt.Errorf("unknown missing values policy %q (want last, avg, zero, one, first, min, max or fixed(N))", s)
}

// fill computes the gap value from the stored values, oldest first.
// Data-dependent kinds fill 0 when nothing is stored yet.
func (p MissingPolicy) fill(values []float64) float64 {
	switch p.Kind {
	case MissingOne:
		return 1
	case MissingFixed:
		return p.Fixed
	case MissingZero:
		return 0
	}
	if len(values) == 0 {
		return 0
	}
	st := StatsOf(values)
	switch p.Kind {
	case MissingLast:
		return st.Last
	case MissingAverage:
		return st.Avg
	case MissingFirst:
		return st.First
	case MissingMin:
		return st.Min
	case MissingMax:
		return st.Max
	}
	return 0
}
