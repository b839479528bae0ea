package equality

import (
	"fmt"
	"testing"

	"github.com/kbukum/storekit/store"
)

type item struct {
	ID      int    `json:"id"`
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestDeep(t *testing.T) {
	tests := []struct {
		name       string
		prev, next store.Projection
		want       bool
	}{
		{"zero", store.Projection{}, store.Projection{}, true},
		{"equal maps", store.Projection{Data: map[string]any{"a": 1}}, store.Projection{Data: map[string]any{"a": 1}}, true},
		{"different maps", store.Projection{Data: map[string]any{"a": 1}}, store.Projection{Data: map[string]any{"a": 2}}, false},
		{"equal structs by pointer content", store.Projection{Data: &item{ID: 1}}, store.Projection{Data: &item{ID: 1}}, true},
		{"loading differs", store.Projection{Loading: true}, store.Projection{}, false},
		{"same error message", store.Projection{Error: fmt.Errorf("boom")}, store.Projection{Error: fmt.Errorf("boom")}, true},
		{"different error", store.Projection{Error: fmt.Errorf("boom")}, store.Projection{Error: fmt.Errorf("bang")}, false},
		{"error vs nil", store.Projection{Error: fmt.Errorf("boom")}, store.Projection{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Deep(tc.prev, tc.next); got != tc.want {
				t.Errorf("Deep() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpr(t *testing.T) {
	eq, err := Expr(`prev.loading == next.loading && prev.data?.version == next.data?.version`)
	if err != nil {
		t.Fatalf("Expr: %v", err)
	}

	a := store.Projection{Data: &item{ID: 1, Version: 3, Name: "a"}}
	b := store.Projection{Data: &item{ID: 1, Version: 3, Name: "renamed"}}
	c := store.Projection{Data: &item{ID: 1, Version: 4, Name: "a"}}

	if !eq(a, b) {
		t.Error("expected same version to compare equal")
	}
	if eq(a, c) {
		t.Error("expected version bump to compare unequal")
	}
	if eq(a, store.Projection{Data: a.Data, Loading: true}) {
		t.Error("expected loading change to compare unequal")
	}
	if !eq(store.Projection{}, store.Projection{}) {
		t.Error("expected empty projections to compare equal")
	}
}

func TestExpr_ErrorField(t *testing.T) {
	eq, err := Expr(`prev.error == next.error`)
	if err != nil {
		t.Fatalf("Expr: %v", err)
	}
	if !eq(store.Projection{Error: fmt.Errorf("x")}, store.Projection{Error: fmt.Errorf("x")}) {
		t.Error("expected equal messages to compare equal")
	}
	if eq(store.Projection{Error: fmt.Errorf("x")}, store.Projection{}) {
		t.Error("expected error vs nil to compare unequal")
	}
}

func TestExpr_CompileErrors(t *testing.T) {
	for _, expression := range []string{"", "prev.loading ==", `"not a bool"`} {
		if _, err := Expr(expression); err == nil {
			t.Errorf("Expr(%q): expected error", expression)
		}
	}
}

func TestExpr_RunErrorPanics(t *testing.T) {
	eq, err := Expr(`prev.data.version == next.data.version`)
	if err != nil {
		t.Fatalf("Expr: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil data member access")
		}
	}()
	eq(store.Projection{}, store.Projection{})
}

func TestCEL(t *testing.T) {
	eq, err := CEL(`prev.loading == next.loading && prev.data.id == next.data.id`)
	if err != nil {
		t.Fatalf("CEL: %v", err)
	}

	a := store.Projection{Data: map[string]any{"id": 7, "name": "a"}}
	b := store.Projection{Data: map[string]any{"id": 7, "name": "b"}}
	c := store.Projection{Data: map[string]any{"id": 8, "name": "a"}}

	if !eq(a, b) {
		t.Error("expected same id to compare equal")
	}
	if eq(a, c) {
		t.Error("expected different id to compare unequal")
	}
}

func TestCEL_Structs(t *testing.T) {
	eq, err := CEL(`prev.data.version == next.data.version`)
	if err != nil {
		t.Fatalf("CEL: %v", err)
	}
	if !eq(store.Projection{Data: item{Version: 2}}, store.Projection{Data: &item{Version: 2, Name: "x"}}) {
		t.Error("expected struct fields to be addressed by json name")
	}
}

func TestCEL_CompileErrors(t *testing.T) {
	for _, expression := range []string{"", "prev.loading ==", `"text"`, "1 + 2"} {
		if _, err := CEL(expression); err == nil {
			t.Errorf("CEL(%q): expected error", expression)
		}
	}
}

func TestCEL_EvalErrorPanics(t *testing.T) {
	eq, err := CEL(`prev.data.id == next.data.id`)
	if err != nil {
		t.Fatalf("CEL: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing key")
		}
	}()
	eq(store.Projection{Data: map[string]any{}}, store.Projection{Data: map[string]any{}})
}

func TestParse(t *testing.T) {
	same := store.Projection{Data: map[string]any{"id": 1}}
	copied := store.Projection{Data: map[string]any{"id": 1}}

	tests := []struct {
		setting string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"identity", false, false},
		{"deep", true, false},
		{"expr: prev.data.id == next.data.id", true, false},
		{"cel:prev.data.id == next.data.id", true, false},
		{"expr:", false, true},
		{"cel:prev.loading ==", false, true},
		{"shallow", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.setting, func(t *testing.T) {
			eq, err := Parse(tc.setting)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !eq(same, same) {
				t.Error("expected a projection to equal itself")
			}
			if got := eq(same, copied); got != tc.want {
				t.Errorf("copied data equal = %v, want %v", got, tc.want)
			}
		})
	}
}
