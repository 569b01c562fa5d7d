package document

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSet_FieldPreservesSiblings(t *testing.T) {
	doc := New()
	if err := doc.AddSection("hero", SectionData{"title": "Hi", "subtitle": "Sub", "visible": true}); err != nil {
		t.Fatalf("add section: %v", err)
	}

	if err := doc.Set("hero", "title", "Hello"); err != nil {
		t.Fatalf("set field: %v", err)
	}

	hero, _ := doc.Section("hero")
	if hero["title"] != "Hello" {
		t.Fatalf("expected updated title, got %v", hero["title"])
	}
	if hero["subtitle"] != "Sub" {
		t.Fatalf("sibling subtitle changed: %v", hero["subtitle"])
	}
	if hero["visible"] != true {
		t.Fatalf("sibling visible changed: %v", hero["visible"])
	}
}

func TestSet_FieldDoesNotMutatePreviousSnapshot(t *testing.T) {
	doc := New()
	_ = doc.AddSection("about", SectionData{"title": "Before"})
	snapshot, _ := doc.Section("about")

	if err := doc.Set("about", "title", "After"); err != nil {
		t.Fatalf("set field: %v", err)
	}

	if snapshot["title"] != "Before" {
		t.Fatalf("previous section object was mutated in place")
	}
}

func TestSet_WholeSectionReplaceAndDelete(t *testing.T) {
	doc := New()
	_ = doc.AddSection("popup", SectionData{"title": "Old", "delay": 3})

	if err := doc.Set("popup", "", map[string]interface{}{"title": "New"}); err != nil {
		t.Fatalf("replace section: %v", err)
	}
	popup, _ := doc.Section("popup")
	if popup["title"] != "New" {
		t.Fatalf("expected replaced data, got %v", popup)
	}
	if _, ok := popup["delay"]; ok {
		t.Fatalf("whole-section replace kept stale field")
	}

	if err := doc.Set("popup", "", nil); err != nil {
		t.Fatalf("delete section: %v", err)
	}
	if _, ok := doc.Section("popup"); ok {
		t.Fatalf("section survived nil replace")
	}
}

func TestSet_TopLevelAndOrder(t *testing.T) {
	doc := New()
	if err := doc.Set(KeyBusinessName, "", "Acme Studio"); err != nil {
		t.Fatalf("set business name: %v", err)
	}
	if doc.BusinessName != "Acme Studio" {
		t.Fatalf("business name not applied: %q", doc.BusinessName)
	}

	if err := doc.Set(KeySectionOrder, "", []interface{}{"hero", "about"}); err != nil {
		t.Fatalf("set order: %v", err)
	}
	if len(doc.Order) != 2 || doc.Order[0] != "hero" || doc.Order[1] != "about" {
		t.Fatalf("unexpected order: %v", doc.Order)
	}

	if err := doc.Set(KeySectionOrder, "", []interface{}{"hero", 5}); err == nil {
		t.Fatalf("expected error for non-string order entry")
	}
}

func TestSet_RejectsNonObjectSection(t *testing.T) {
	doc := New()
	if err := doc.Set("hero", "", "not an object"); !errors.Is(err, ErrUnknownTopLevelField) {
		t.Fatalf("err = %v, want ErrUnknownTopLevelField", err)
	}
}

func TestSet_RejectsFieldOnReservedKey(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", SectionData{})

	for _, key := range []string{KeySectionOrder, KeyBusinessName, KeyTagline, KeyTheme} {
		if err := doc.Set(key, "anything", "x"); !errors.Is(err, ErrUnknownTopLevelField) {
			t.Fatalf("Set(%q, field): err = %v, want ErrUnknownTopLevelField", key, err)
		}
	}

	// The rejected writes must not have grown ghost sections.
	if err := doc.Validate(); err != nil {
		t.Fatalf("document corrupted by rejected writes: %v", err)
	}
}

func TestValidate_OrderConsistency(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", SectionData{})
	_ = doc.AddSection("about", SectionData{})
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	doc.Order = append(doc.Order, "ghost")
	if err := doc.Validate(); err == nil {
		t.Fatalf("expected error for ordered key without data")
	}

	doc.Order = []string{"hero"}
	if err := doc.Validate(); err == nil {
		t.Fatalf("expected error for section missing from order")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := DefaultDocument("Acme", "We build things")
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := New()
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.BusinessName != "Acme" || decoded.Tagline != "We build things" {
		t.Fatalf("top-level fields lost: %+v", decoded)
	}
	if len(decoded.Order) != len(doc.Order) {
		t.Fatalf("order length changed: %v vs %v", decoded.Order, doc.Order)
	}
	for i := range doc.Order {
		if decoded.Order[i] != doc.Order[i] {
			t.Fatalf("order changed at %d: %v vs %v", i, decoded.Order, doc.Order)
		}
	}
	if err := decoded.Validate(); err != nil {
		t.Fatalf("decoded document invalid: %v", err)
	}
}

func TestUnmarshal_AdoptsOrphanSections(t *testing.T) {
	raw := []byte(`{"businessName":"Acme","sectionOrder":["hero"],"hero":{"title":"Hi"},"contact":{"email":"a@b.co"}}`)

	doc := New()
	if err := json.Unmarshal(raw, doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(doc.Order) != 2 || doc.Order[0] != "hero" || doc.Order[1] != "contact" {
		t.Fatalf("orphan section not appended to order: %v", doc.Order)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("adopted document invalid: %v", err)
	}
}

func TestUnmarshal_DropsOrderEntriesWithoutData(t *testing.T) {
	raw := []byte(`{"sectionOrder":["hero","ghost"],"hero":{"title":"Hi"}}`)

	doc := New()
	if err := json.Unmarshal(raw, doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Order) != 1 || doc.Order[0] != "hero" {
		t.Fatalf("dangling order entry kept: %v", doc.Order)
	}
}
