package entities

import (
	"cmp"
	"slices"
	"strings"
)

// UniqueSorted возвращает новый отсортированный срез без повторов.
func UniqueSorted[T cmp.Ordered](values []T) []T {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// Intersect возвращает отсортированное пересечение двух наборов.
func Intersect[T cmp.Ordered](a, b []T) []T {
	seen := make(map[T]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	out := make([]T, 0)
	for _, v := range b {
		if _, ok := seen[v]; ok {
			out = append(out, v)
		}
	}
	return UniqueSorted(out)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
