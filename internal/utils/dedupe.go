package utils

// RemoveDuplicates returns a new slice keeping only the first occurrence of
// each distinct key, preserving the relative order of first occurrences.
func RemoveDuplicates[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
