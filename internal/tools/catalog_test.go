package tools

import (
	"errors"
	"testing"
)

func TestCatalogContents(t *testing.T) {
	catalog := NewCatalog()

	wantOrder := []string{
		"create_task", "read_task", "task_list", "update_task", "delete_task",
		"create_collection", "read_collection", "collection_list",
		"update_collection", "delete_collection",
	}
	if catalog.Len() != len(wantOrder) {
		t.Fatalf("catalog has %d tools, want %d", catalog.Len(), len(wantOrder))
	}
	for i, def := range catalog.List() {
		if def.Function.Name != wantOrder[i] {
			t.Errorf("tool %d: got %q, want %q", i, def.Function.Name, wantOrder[i])
		}
		if def.Type != ToolTypeFunction {
			t.Errorf("tool %q has type %q", def.Function.Name, def.Type)
		}
		if def.Function.Description == "" {
			t.Errorf("tool %q has no description", def.Function.Name)
		}
	}
}

func TestCatalogResolve(t *testing.T) {
	catalog := NewCatalog()

	def, err := catalog.Resolve("create_task")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if def.Function.Name != "create_task" {
		t.Errorf("resolved wrong tool %q", def.Function.Name)
	}

	if _, err := catalog.Resolve("launch_rocket"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestCatalogNeverAdvertisesCredentials(t *testing.T) {
	for _, def := range NewCatalog().List() {
		for name := range def.Function.Parameters.Properties {
			if name == "token" || name == "authorization" {
				t.Errorf("tool %q exposes credential parameter %q", def.Function.Name, name)
			}
		}
	}
}

func TestCatalogListIsACopy(t *testing.T) {
	catalog := NewCatalog()
	list := catalog.List()
	list[0].Function.Name = "mutated"

	if catalog.List()[0].Function.Name == "mutated" {
		t.Error("mutating the returned slice changed the catalog")
	}
}
