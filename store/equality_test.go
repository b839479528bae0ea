package store

import (
	"errors"
	"testing"
)

type point struct{ X, Y int }

type withSlice struct{ Items []int }

func TestDefaultEqualityChecker(t *testing.T) {
	shared := map[string]any{"name": "alice"}
	items := []int{1, 2, 3}
	ptr := &point{1, 2}
	errBoom := errors.New("boom")
	fn := func() {}

	tests := []struct {
		name string
		prev Projection
		next Projection
		want bool
	}{
		{"zero values", Projection{}, Projection{}, true},
		{"loading differs", Projection{}, Projection{Loading: true}, false},
		{"same string", Projection{Data: "a"}, Projection{Data: "a"}, true},
		{"different string", Projection{Data: "a"}, Projection{Data: "b"}, false},
		{"same struct value", Projection{Data: point{1, 2}}, Projection{Data: point{1, 2}}, true},
		{"int vs int64", Projection{Data: 1}, Projection{Data: int64(1)}, false},
		{"nil vs value", Projection{}, Projection{Data: 0}, false},
		{"same map reference", Projection{Data: shared}, Projection{Data: shared}, true},
		{"equal distinct maps", Projection{Data: map[string]any{"name": "alice"}}, Projection{Data: map[string]any{"name": "alice"}}, false},
		{"same slice", Projection{Data: items}, Projection{Data: items}, true},
		{"resliced", Projection{Data: items}, Projection{Data: items[:2]}, false},
		{"equal distinct slices", Projection{Data: []int{1}}, Projection{Data: []int{1}}, false},
		{"same pointer", Projection{Data: ptr}, Projection{Data: ptr}, true},
		{"equal distinct pointers", Projection{Data: &point{1, 2}}, Projection{Data: &point{1, 2}}, false},
		{"non-comparable struct", Projection{Data: withSlice{items}}, Projection{Data: withSlice{items}}, false},
		{"funcs never equal", Projection{Data: fn}, Projection{Data: fn}, false},
		{"same error", Projection{Error: errBoom}, Projection{Error: errBoom}, true},
		{"equal distinct errors", Projection{Error: errors.New("boom")}, Projection{Error: errors.New("boom")}, false},
		{"error cleared", Projection{Error: errBoom}, Projection{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultEqualityChecker(tc.prev, tc.next); got != tc.want {
				t.Errorf("DefaultEqualityChecker() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSameDependency(t *testing.T) {
	eq := EqualityChecker[Projection](DefaultEqualityChecker)
	other := EqualityChecker[Projection](func(a, b Projection) bool { return true })

	if !sameDependency(eq, eq) {
		t.Error("same func should be the same dependency")
	}
	if sameDependency(eq, other) {
		t.Error("different funcs should differ")
	}
	if !sameDependency(nil, nil) {
		t.Error("nil should equal nil")
	}
}
