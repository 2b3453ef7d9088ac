package util

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, converter(v))
	}
	return out
}

// CanonicalMapIter yields map entries in sorted key order, so logs and errors built while
// walking an index come out the same on every run.
func CanonicalMapIter[T any](m map[string]T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

// SplitLines returns the trimmed, non-empty lines of s. Generator config lists such as
// target_tables are written one name per line.
func SplitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
