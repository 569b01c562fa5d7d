package document

import "testing"

func TestParseKey(t *testing.T) {
	cases := []struct {
		key      string
		kind     Kind
		base     string
		instance int
	}{
		{"hero", KindCanonical, "hero", 1},
		{"popup_2", KindCanonical, "popup", 2},
		{"testimonials_13", KindCanonical, "testimonials", 13},
		{"customSection_1712000000000", KindCustom, "customSection_1712000000000", 1},
		{"codeSection_1712000000001", KindCode, "codeSection_1712000000001", 1},
		{"aiSection_1712000000002", KindAI, "aiSection_1712000000002", 1},
		{"mystery", KindFallback, "mystery", 1},
		{"mystery_4", KindFallback, "mystery", 4},
		// _1 and _0 are never produced by duplication, so they stay part of
		// the base name.
		{"popup_1", KindFallback, "popup_1", 1},
		{"snake_case_name", KindFallback, "snake_case_name", 1},
	}

	for _, tc := range cases {
		ref := ParseKey(tc.key)
		if ref.Kind != tc.kind || ref.Base != tc.base || ref.Instance != tc.instance {
			t.Fatalf("ParseKey(%q) = %+v, want kind=%s base=%s instance=%d",
				tc.key, ref, tc.kind, tc.base, tc.instance)
		}
	}
}

func TestEditorFor(t *testing.T) {
	cases := map[string]string{
		"hero":                        "hero",
		"popup_3":                     "popup",
		"customSection_1712000000000": "custom",
		"codeSection_1712000000000":   "code",
		"aiSection_1712000000000":     "ai",
		"unknownSection":              "generic",
	}

	for key, want := range cases {
		if got := EditorFor(key); got != want {
			t.Fatalf("EditorFor(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestEditorFor_Idempotent(t *testing.T) {
	keys := []string{"hero", "popup_2", "customSection_99", "whatever_7"}
	for _, key := range keys {
		first := EditorFor(key)
		for i := 0; i < 3; i++ {
			if got := EditorFor(key); got != first {
				t.Fatalf("EditorFor(%q) unstable: %q then %q", key, first, got)
			}
		}
	}
}

func TestInstanceKey(t *testing.T) {
	if got := InstanceKey("popup", 1); got != "popup" {
		t.Fatalf("instance 1 must be the bare key, got %q", got)
	}
	if got := InstanceKey("popup", 4); got != "popup_4" {
		t.Fatalf("expected popup_4, got %q", got)
	}
}
