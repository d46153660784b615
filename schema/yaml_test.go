package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseYAML(t *testing.T) {
	n, err := ParseYAML([]byte(`
name: string
email: string?
todos:
  - id: number
    task: string
    done: boolean
`))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if n.Kind != KindObject || len(n.Fields) != 3 {
		t.Fatalf("unexpected root: %+v", n)
	}
	// Document order is preserved, unlike Parse on a Go map.
	for i, want := range []string{"name", "email", "todos"} {
		if n.Fields[i].Name != want {
			t.Errorf("field %d = %q, want %q", i, n.Fields[i].Name, want)
		}
	}
	if !n.Fields[1].Node.Opt {
		t.Error("email must be optional")
	}
	todos := n.Fields[2].Node
	if todos.Kind != KindArray || todos.Elem.Kind != KindObject {
		t.Fatalf("unexpected todos node: %+v", todos)
	}
}

func TestParseYAMLArrayRoot(t *testing.T) {
	n, err := ParseYAML([]byte("- id: number\n  task: string\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if n.Kind != KindArray || n.Elem.Kind != KindObject {
		t.Fatalf("unexpected root: %+v", n)
	}
}

func TestParseYAMLMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"two element sequence", "xs:\n  - string\n  - number\n"},
		{"unknown literal", "a: decimal\n"},
		{"empty document", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.doc)); !errors.Is(err, ErrDefinition) {
				t.Errorf("ParseYAML error = %v, want ErrDefinition", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte("name: string\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if n.Kind != KindObject || n.Fields[0].Name != "name" {
		t.Errorf("unexpected node: %+v", n)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile on a missing file must fail")
	}
}
