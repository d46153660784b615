package storedobject

import (
	"reflect"
	"testing"
)

func TestMergeMapUpdatesInPlace(t *testing.T) {
	dst := map[string]any{
		"name":  "old",
		"stale": true,
		"user":  map[string]any{"age": float64(1), "bio": "x"},
	}
	user := dst["user"].(map[string]any)

	mergeMap(dst, map[string]any{
		"name": "new",
		"user": map[string]any{"age": float64(2)},
	})

	want := map[string]any{
		"name": "new",
		"user": map[string]any{"age": float64(2)},
	}
	if !reflect.DeepEqual(dst, want) {
		t.Errorf("dst = %#v, want %#v", dst, want)
	}
	// The nested map identity survives: the old reference observes the
	// merged content.
	if user["age"] != float64(2) {
		t.Error("held reference to nested map does not see the update")
	}
	if _, ok := user["bio"]; ok {
		t.Error("stale nested key not deleted")
	}
}

func TestMergeMapTypeChangeReplaces(t *testing.T) {
	dst := map[string]any{"v": map[string]any{"a": float64(1)}}
	mergeMap(dst, map[string]any{"v": "now a string"})
	if dst["v"] != "now a string" {
		t.Errorf("v = %#v", dst["v"])
	}

	dst = map[string]any{"v": "s"}
	mergeMap(dst, map[string]any{"v": []any{float64(1)}})
	if !reflect.DeepEqual(dst["v"], []any{float64(1)}) {
		t.Errorf("v = %#v", dst["v"])
	}
}

func TestMergeSliceKeepsCell(t *testing.T) {
	cell := []any{float64(1), float64(2), float64(3)}
	mergeSlice(&cell, []any{float64(9)})
	if !reflect.DeepEqual(cell, []any{float64(9)}) {
		t.Errorf("cell = %#v", cell)
	}
	mergeSlice(&cell, []any{})
	if len(cell) != 0 {
		t.Errorf("cell = %#v, want empty", cell)
	}
}

func TestDeepCopyDetaches(t *testing.T) {
	src := map[string]any{
		"user":  map[string]any{"name": "a"},
		"items": []any{map[string]any{"id": float64(1)}},
	}
	cp := deepCopy(src).(map[string]any)
	if !reflect.DeepEqual(cp, src) {
		t.Fatalf("copy differs: %#v", cp)
	}
	cp["user"].(map[string]any)["name"] = "b"
	cp["items"].([]any)[0].(map[string]any)["id"] = float64(2)
	if src["user"].(map[string]any)["name"] != "a" {
		t.Error("nested map still aliased")
	}
	if src["items"].([]any)[0].(map[string]any)["id"] != float64(1) {
		t.Error("nested slice element still aliased")
	}
}
