package memory

import (
	"context"
	"errors"
	"testing"

	"meme-studio/core"
)

func TestInsertAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	template := &core.Template{
		Name: "drake",
		Kind: core.KindPhoto,
		Tags: []string{"classic"},
		Layout: &core.LayoutDocument{
			Canvas: &core.CanvasSpec{Width: 1080, Height: 1080, BackgroundColor: "#ffffff"},
		},
	}

	id, err := store.Insert(ctx, template)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Insert() returned empty id")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "drake" || got.Kind != core.KindPhoto {
		t.Errorf("Template mismatch: %+v", got)
	}
	if got.Layout == nil || got.Layout.Canvas.Width != 1080 {
		t.Error("Get() should return the full layout document")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Timestamps should be set on insert")
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, core.ErrTemplateNotFound) {
		t.Errorf("Expected ErrTemplateNotFound, got %v", err)
	}
}

func TestListByKind(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	layout := &core.LayoutDocument{Canvas: &core.CanvasSpec{Width: 1, Height: 1}}
	for _, tpl := range []*core.Template{
		{Name: "a", Kind: core.KindPhoto, Layout: layout},
		{Name: "b", Kind: core.KindPhoto, Layout: layout},
		{Name: "c", Kind: core.KindVideo, Layout: layout},
	} {
		if _, err := store.Insert(ctx, tpl); err != nil {
			t.Fatalf("Insert(%s) failed: %v", tpl.Name, err)
		}
	}

	photos, err := store.ListByKind(ctx, core.KindPhoto)
	if err != nil {
		t.Fatalf("ListByKind() failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("Expected 2 photo templates, got %d", len(photos))
	}
	for _, tpl := range photos {
		if tpl.Layout != nil {
			t.Error("List views must not carry the layout document")
		}
	}

	none, err := store.ListByKind(ctx, core.KindVideo)
	if err != nil {
		t.Fatalf("ListByKind() failed: %v", err)
	}
	if len(none) != 1 {
		t.Errorf("Expected 1 video template, got %d", len(none))
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, &core.Template{Name: "orig", Kind: core.KindPhoto})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	first, _ := store.Get(ctx, id)
	first.Name = "mutated"

	second, _ := store.Get(ctx, id)
	if second.Name != "orig" {
		t.Error("Mutating a returned template must not affect the store")
	}
}
