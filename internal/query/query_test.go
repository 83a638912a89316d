package query

import (
	"reflect"
	"testing"
)

func TestFilterEmptyPredicateList(t *testing.T) {
	items := []int{3, 1, 2}
	got := Filter(items)
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("empty predicate list must return the input unchanged, got %v", got)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	items := []int{5, 2, 8, 1, 9, 4}
	got := Filter(items, func(n int) bool { return n > 3 })
	want := []int{5, 8, 9, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
}

func TestFilterPredicateOrderDoesNotMatter(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	even := func(n int) bool { return n%2 == 0 }
	small := func(n int) bool { return n < 7 }
	first := Filter(items, even, small)
	second := Filter(items, small, even)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("predicate order changed the result: %v vs %v", first, second)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := []int{1, 2, 3}
	_ = Filter(items, func(n int) bool { return n == 2 })
	if !reflect.DeepEqual(items, []int{1, 2, 3}) {
		t.Fatalf("input was mutated: %v", items)
	}
}

func TestFilterSkipsNilPredicates(t *testing.T) {
	items := []int{1, 2, 3}
	got := Filter(items, nil, func(n int) bool { return n > 1 })
	want := []int{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter with nil predicate = %v, want %v", got, want)
	}
}

func TestCount(t *testing.T) {
	items := []string{"a", "bb", "ccc"}
	if got := Count(items, nil); got != 3 {
		t.Fatalf("nil predicate counts everything, got %d", got)
	}
	if got := Count(items, func(s string) bool { return len(s) > 1 }); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	cases := []struct {
		name          string
		limit, offset int
		want          []int
	}{
		{"window", 2, 1, []int{2, 3}},
		{"no limit", 0, 2, []int{3, 4, 5}},
		{"negative offset", 2, -1, []int{1, 2}},
		{"offset past end", 2, 9, nil},
		{"limit past end", 10, 3, []int{4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Page(items, tc.limit, tc.offset)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Page(%d, %d) = %v, want %v", tc.limit, tc.offset, got, tc.want)
			}
		})
	}
}
