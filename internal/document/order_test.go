package document

import (
	"errors"
	"testing"
)

func builderDoc(t *testing.T, keys ...string) *Document {
	t.Helper()
	doc := New()
	for _, key := range keys {
		if err := doc.AddSection(key, DefaultsFor(ParseKey(key).Base)); err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	return doc
}

func assertOrder(t *testing.T, doc *Document, want ...string) {
	t.Helper()
	if len(doc.Order) != len(want) {
		t.Fatalf("order %v, want %v", doc.Order, want)
	}
	for i := range want {
		if doc.Order[i] != want[i] {
			t.Fatalf("order %v, want %v", doc.Order, want)
		}
	}
}

func TestMove_BoundariesAreNoOps(t *testing.T) {
	doc := builderDoc(t, "header", "hero", "footer")

	doc.MoveUp("header")
	assertOrder(t, doc, "header", "hero", "footer")

	doc.MoveDown("footer")
	assertOrder(t, doc, "header", "hero", "footer")

	doc.MoveUp("missing")
	doc.MoveDown("missing")
	assertOrder(t, doc, "header", "hero", "footer")
}

func TestMove_SwapsAdjacent(t *testing.T) {
	doc := builderDoc(t, "header", "hero", "footer")

	doc.MoveUp("hero")
	assertOrder(t, doc, "hero", "header", "footer")

	doc.MoveDown("hero")
	assertOrder(t, doc, "header", "hero", "footer")

	if err := doc.Validate(); err != nil {
		t.Fatalf("document invalid after moves: %v", err)
	}
}

func TestReorder_MovesDraggedToTarget(t *testing.T) {
	doc := builderDoc(t, "header", "hero", "about", "footer")

	doc.Reorder("footer", "hero")
	assertOrder(t, doc, "header", "footer", "hero", "about")

	doc.Reorder("header", "about")
	assertOrder(t, doc, "footer", "hero", "about", "header")

	before := len(doc.Order)
	doc.Reorder("ghost", "hero")
	doc.Reorder("hero", "ghost")
	if len(doc.Order) != before {
		t.Fatalf("order length changed on stale drag: %v", doc.Order)
	}
}

func TestRemoveSection_Atomic(t *testing.T) {
	doc := builderDoc(t, "header", "hero", "footer")

	if err := doc.RemoveSection("hero", false); err != nil {
		t.Fatalf("remove canonical section: %v", err)
	}
	assertOrder(t, doc, "header", "footer")
	if _, ok := doc.Section("hero"); ok {
		t.Fatalf("section data survived removal")
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("document invalid after removal: %v", err)
	}

	if err := doc.RemoveSection("hero", false); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRemoveSection_DuplicateNeedsConfirmation(t *testing.T) {
	doc := builderDoc(t, "popup", "popup_2")

	err := doc.RemoveSection("popup_2", false)
	if !errors.Is(err, ErrConfirmRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if _, ok := doc.Section("popup_2"); !ok {
		t.Fatalf("unconfirmed removal deleted the section")
	}

	if err := doc.RemoveSection("popup_2", true); err != nil {
		t.Fatalf("confirmed removal failed: %v", err)
	}
	if err := doc.RemoveSection("popup", false); err != nil {
		t.Fatalf("bare key must not require confirmation: %v", err)
	}
}

func TestNextKey_SuffixNumbering(t *testing.T) {
	doc := New()

	if got := doc.NextKey("popup"); got != "popup" {
		t.Fatalf("first instance should be the bare key, got %q", got)
	}
	_ = doc.AddSection("popup", DefaultsFor("popup"))

	if got := doc.NextKey("popup"); got != "popup_2" {
		t.Fatalf("second instance should be popup_2, got %q", got)
	}
	_ = doc.AddSection("popup_2", DefaultsFor("popup"))

	if got := doc.NextKey("popup"); got != "popup_3" {
		t.Fatalf("third instance should be popup_3, got %q", got)
	}
}

func TestNextKey_NeverReusesDeletedSuffix(t *testing.T) {
	doc := builderDoc(t, "popup", "popup_2", "popup_3")

	if err := doc.RemoveSection("popup_2", true); err != nil {
		t.Fatalf("remove popup_2: %v", err)
	}
	if got := doc.NextKey("popup"); got != "popup_4" {
		t.Fatalf("deleted suffix must not be reissued, got %q", got)
	}
}

func TestNextKey_DeletedBaseKeyIsReusable(t *testing.T) {
	doc := builderDoc(t, "popup", "popup_2")

	if err := doc.RemoveSection("popup", false); err != nil {
		t.Fatalf("remove popup: %v", err)
	}

	// With the bare key free it is handed out again; the surviving _2 still
	// pins the numeric floor for later duplicates.
	if got := doc.NextKey("popup"); got != "popup" {
		t.Fatalf("bare key should be reusable after deletion, got %q", got)
	}
	_ = doc.AddSection("popup", DefaultsFor("popup"))
	if got := doc.NextKey("popup"); got != "popup_3" {
		t.Fatalf("suffix floor lost after base reuse, got %q", got)
	}
}

func TestDuplicate_ClonesDataUnderNewKey(t *testing.T) {
	doc := New()
	_ = doc.AddSection("testimonials", SectionData{"title": "Clients", "items": []interface{}{"a"}})

	key, err := doc.Duplicate("testimonials")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if key != "testimonials_2" {
		t.Fatalf("expected testimonials_2, got %q", key)
	}

	copy, _ := doc.Section(key)
	if copy["title"] != "Clients" {
		t.Fatalf("duplicate lost data: %v", copy)
	}

	_ = doc.Set(key, "title", "Changed")
	original, _ := doc.Section("testimonials")
	if original["title"] != "Clients" {
		t.Fatalf("editing the duplicate mutated the original")
	}
	assertOrder(t, doc, "testimonials", "testimonials_2")
}

func TestDuplicate_OfSuffixedInstanceUsesBase(t *testing.T) {
	doc := builderDoc(t, "popup", "popup_2")

	key, err := doc.Duplicate("popup_2")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if key != "popup_3" {
		t.Fatalf("expected popup_3, got %q", key)
	}
}

func TestAddSection_RejectsCollision(t *testing.T) {
	doc := builderDoc(t, "hero")
	if err := doc.AddSection("hero", SectionData{}); !errors.Is(err, ErrSectionExists) {
		t.Fatalf("expected collision error, got %v", err)
	}
}
