package query

// Predicate decides whether an item belongs to a filtered view.
type Predicate[T any] func(T) bool

// Filter returns the subsequence of items matching every predicate, in the
// original order. The input is never mutated; an empty predicate list
// returns the collection unchanged.
func Filter[T any](items []T, predicates ...Predicate[T]) []T {
	if len(predicates) == 0 {
		return items
	}
	var out []T
	for _, item := range items {
		if matchesAll(item, predicates) {
			out = append(out, item)
		}
	}
	return out
}

// Count returns how many items match the predicate. A nil predicate
// counts everything.
func Count[T any](items []T, predicate Predicate[T]) int {
	if predicate == nil {
		return len(items)
	}
	count := 0
	for _, item := range items {
		if predicate(item) {
			count++
		}
	}
	return count
}

// Page slices out the [offset, offset+limit) window. A non-positive
// limit means no cap; an out-of-range offset yields an empty slice.
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func matchesAll[T any](item T, predicates []Predicate[T]) bool {
	for _, predicate := range predicates {
		if predicate != nil && !predicate(item) {
			return false
		}
	}
	return true
}
