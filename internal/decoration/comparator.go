package decoration

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// equalTolerance is the absolute tolerance of the = comparator.
const equalTolerance = 1e-9

// Comparator relates a series value to an alert threshold.
type Comparator int

const (
	Less Comparator = iota
	LessEqual
	Equal
	GreaterEqual
	Greater
)

var comparatorSymbols = map[Comparator]string{
	Less:         "<",
	LessEqual:    "<=",
	Equal:        "=",
	GreaterEqual: ">=",
	Greater:      ">",
}

func (c Comparator) String() string {
	if s, ok := comparatorSymbols[c]; ok {
		return s
	}
	return fmt.Sprintf("Comparator(%d)", int(c))
}

// ParseComparator parses one of <, <=, =, >=, >. "==" is accepted for =.
func ParseComparator(s string) (Comparator, error) {
	raw := strings.TrimSpace(s)
	if raw == "==" {
		return Equal, nil
	}
	for c, sym := range comparatorSymbols {
		if raw == sym {
			return c, nil
		}
	}
	return Greater, fmt.Errorf("unknown comparator %q (want <, <=, =, >= or >)", s)
}

// Compare reports whether "value <c> threshold" holds.
func (c Comparator) Compare(value, threshold float64) bool {
	switch c {
	case Less:
		return value < threshold
	case LessEqual:
		return value < threshold || scalar.EqualWithinAbs(value, threshold, equalTolerance)
	case Equal:
		return scalar.EqualWithinAbs(value, threshold, equalTolerance)
	case GreaterEqual:
		return value > threshold || scalar.EqualWithinAbs(value, threshold, equalTolerance)
	case Greater:
		return value > threshold
	}
	return false
}
