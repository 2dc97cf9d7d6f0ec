package util

// Chunk splits items into consecutive groups of at most n elements.
// The last group holds the remainder. n <= 0 yields a single group.
//
// Example:
//
//	Chunk([]int{1, 2, 3, 4, 5}, 2) // [[1 2] [3 4] [5]]
func Chunk[T any](items []T, n int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if n <= 0 {
		n = len(items)
	}

	chunks := make([][]T, 0, (len(items)+n-1)/n)
	for i := 0; i < len(items); i += n {
		end := min(i+n, len(items))
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// Delta is the result of Diff.
type Delta[T comparable] struct {
	Added   []T
	Removed []T
}

// Diff reports which elements of next are absent from prev (Added)
// and which elements of prev are absent from next (Removed).
// Order follows the input slices.
func Diff[T comparable](next, prev []T) Delta[T] {
	inNext := make(map[T]struct{}, len(next))
	for _, v := range next {
		inNext[v] = struct{}{}
	}
	inPrev := make(map[T]struct{}, len(prev))
	for _, v := range prev {
		inPrev[v] = struct{}{}
	}

	var d Delta[T]
	for _, v := range next {
		if _, ok := inPrev[v]; !ok {
			d.Added = append(d.Added, v)
		}
	}
	for _, v := range prev {
		if _, ok := inNext[v]; !ok {
			d.Removed = append(d.Removed, v)
		}
	}
	return d
}
