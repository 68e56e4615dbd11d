package types

import (
	"strconv"
	"strings"
)

// OrdinalSeparator separates the components of a member ordinal.
const OrdinalSeparator = "."

// OrdinalKey is a parsed member ordinal such as "168.225.0.-1.0".
// The zero value is the absent ordinal.
type OrdinalKey struct {
	parts   []int64
	present bool
}

// ParseOrdinal splits s on OrdinalSeparator and parses each component as a
// signed integer. Components that are not integers count as 0. An empty
// string yields the absent key.
func ParseOrdinal(s string) OrdinalKey {
	if s == "" {
		return OrdinalKey{}
	}
	fields := strings.Split(s, OrdinalSeparator)
	parts := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			n = 0
		}
		parts[i] = n
	}
	return OrdinalKey{parts: parts, present: true}
}

// Present reports whether the key came from a non-empty ordinal.
func (k OrdinalKey) Present() bool {
	return k.present
}

// Parts returns a copy of the parsed components.
func (k OrdinalKey) Parts() []int64 {
	return append([]int64(nil), k.parts...)
}

// Compare returns -1, 0 or +1 as k sorts before, equal to, or after o.
func (k OrdinalKey) Compare(o OrdinalKey) int {
	return CompareOrdinals(k, o)
}

// CompareOrdinals orders keys numerically component by component. The shorter
// key is padded with zero components, so "1.2" equals "1.2.0" and sorts
// before "1.2.1". Absent keys sort before all present keys.
func CompareOrdinals(a, b OrdinalKey) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	}
	n := max(len(a.parts), len(b.parts))
	for i := range n {
		x, y := component(a.parts, i), component(b.parts, i)
		if x < y {
			return -1
		}
		if x > y {
			return 1
		}
	}
	return 0
}

func component(parts []int64, i int) int64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
