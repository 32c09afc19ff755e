// ABOUTME: Tests for the preferences key-value store
// ABOUTME: Covers upsert, boolean flags, prefix listing and tour completion
package sqlite

import (
	"reflect"
	"testing"
)

func newTestPreferences(t *testing.T) *PreferenceStore {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPreferenceStore(db)
}

func TestPreferenceSetGet(t *testing.T) {
	p := newTestPreferences(t)

	if _, ok, err := p.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) ok=%v err=%v", ok, err)
	}
	if err := p.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := p.Set("theme", "light"); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}
	v, ok, err := p.Get("theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("Get(theme) = %q, %v, %v", v, ok, err)
	}
	if err := p.Delete("theme"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := p.Get("theme"); ok {
		t.Error("theme should be gone")
	}
	if err := p.Delete("theme"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestPreferenceBool(t *testing.T) {
	p := newTestPreferences(t)

	got, err := p.Bool(KeySidebarExpanded, true)
	if err != nil || !got {
		t.Errorf("Bool() default = %v, %v; want true", got, err)
	}
	if err := p.SetBool(KeySidebarExpanded, false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	got, _ = p.Bool(KeySidebarExpanded, true)
	if got {
		t.Error("Bool() = true, want stored false")
	}

	_ = p.Set("garbled", "maybe")
	got, err = p.Bool("garbled", true)
	if err != nil || !got {
		t.Errorf("Bool(garbled) = %v, %v; want default", got, err)
	}
}

func TestPreferenceListAndTours(t *testing.T) {
	p := newTestPreferences(t)
	_ = p.SetBool(TourKey("decision_canvas"), true)
	_ = p.SetBool(TourKey("abu"), true)
	_ = p.SetBool(TourKey("neptune"), false)
	_ = p.SetBool(KeySidebarExpanded, true)

	prefs, err := p.List(KeyTourPrefix)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(prefs) != 3 {
		t.Fatalf("List(tour:) = %d entries, want 3", len(prefs))
	}
	if prefs[0].Key != "tour:abu" {
		t.Errorf("List not ordered by key: first = %s", prefs[0].Key)
	}

	all, _ := p.List("")
	if len(all) != 4 {
		t.Errorf("List(\"\") = %d entries, want 4", len(all))
	}

	tours, err := p.CompletedTours()
	if err != nil {
		t.Fatalf("CompletedTours() error = %v", err)
	}
	if want := []string{"abu", "decision_canvas"}; !reflect.DeepEqual(tours, want) {
		t.Errorf("CompletedTours() = %v, want %v", tours, want)
	}
}
