package metrics

import (
	"fmt"
	"sort"
)

// ComparableItem pairs the canonical value used for matching with the
// original text it came from. Only Canonical takes part in equality.
type ComparableItem[T comparable] struct {
	Canonical T
	Original  string
}

// Item wraps a string whose canonical and original forms start out equal.
func Item(s string) ComparableItem[string] {
	return ComparableItem[string]{Canonical: s, Original: s}
}

// Items wraps each string with Item.
func Items(values []string) []ComparableItem[string] {
	out := make([]ComparableItem[string], 0, len(values))
	for _, v := range values {
		out = append(out, Item(v))
	}
	return out
}

// MultisetKey identifies the n-th occurrence of a canonical value.
type MultisetKey[T comparable] struct {
	Value      T
	Occurrence int
}

// Multiset is a set of comparable items in which repeated canonical values
// stay distinct members, keyed by their zero-based occurrence index.
type Multiset[T comparable] map[MultisetKey[T]]ComparableItem[T]

// ToMultiset groups items by canonical value and numbers each group's members
// in input order, so set difference behaves like multiset difference.
func ToMultiset[T comparable](items []ComparableItem[T]) Multiset[T] {
	seen := make(map[T]int, len(items))
	set := make(Multiset[T], len(items))
	for _, item := range items {
		n := seen[item.Canonical]
		seen[item.Canonical] = n + 1
		set[MultisetKey[T]{Value: item.Canonical, Occurrence: n}] = item
	}
	return set
}

// Missing returns the members of m that are not in other, ordered by
// original text so diagnostics come out stable.
func (m Multiset[T]) Missing(other Multiset[T]) []ComparableItem[T] {
	var keys []MultisetKey[T]
	for k := range m {
		if _, ok := other[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]], m[keys[j]]
		if a.Original != b.Original {
			return a.Original < b.Original
		}
		if keys[i].Occurrence != keys[j].Occurrence {
			return keys[i].Occurrence < keys[j].Occurrence
		}
		return fmt.Sprint(keys[i].Value) < fmt.Sprint(keys[j].Value)
	})

	out := make([]ComparableItem[T], 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// countIn returns how many members of m are also in other.
func (m Multiset[T]) countIn(other Multiset[T]) int {
	n := 0
	for k := range m {
		if _, ok := other[k]; ok {
			n++
		}
	}
	return n
}
