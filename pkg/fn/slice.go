package fn

import (
	"cmp"
	"slices"
)

// Map applies f to each element.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// Filter returns elements where pred is true.
func Filter[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, v := range items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Run is a maximal group of items sharing a key.
type Run[K comparable, T any] struct {
	Key   K
	Items []T
}

// SortedGroups stably sorts items by key and returns one run per distinct
// key in ascending key order. Items keep their relative order within a run.
func SortedGroups[T any, K cmp.Ordered](items []T, key func(T) K) []Run[K, T] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
	var out []Run[K, T]
	for _, v := range sorted {
		k := key(v)
		if n := len(out); n > 0 && out[n-1].Key == k {
			out[n-1].Items = append(out[n-1].Items, v)
			continue
		}
		out = append(out, Run[K, T]{Key: k, Items: []T{v}})
	}
	return out
}

// Unique returns unique elements preserving order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{})
	var out []T
	for _, v := range items {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
