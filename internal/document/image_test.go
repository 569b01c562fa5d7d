package document

import (
	"errors"
	"testing"
	"time"
)

func TestImageLifecycle_SuccessPath(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", DefaultsFor("hero"))

	if state := imageState(t, doc, "hero", "image"); state != ImageEmpty {
		t.Fatalf("expected empty field, got %s", state)
	}

	err := doc.StartImageUpload("hero", "image", FileMeta{FileName: "pic.png", FileSize: 1024, FileType: "image/png"})
	if err != nil {
		t.Fatalf("start upload: %v", err)
	}
	if state := imageState(t, doc, "hero", "image"); state != ImageLoading {
		t.Fatalf("expected loading state, got %s", state)
	}

	value, _ := doc.Field("hero", "image")
	marker := value.(map[string]interface{})
	if marker["fileName"] != "pic.png" {
		t.Fatalf("loading marker missing metadata: %v", marker)
	}

	result := map[string]interface{}{
		"url":           "x",
		"isServerImage": true,
		"fileName":      "pic.png",
		"fileSize":      int64(1024),
	}
	if err := doc.ResolveImageUpload("hero", "image", result); err != nil {
		t.Fatalf("resolve upload: %v", err)
	}
	if state := imageState(t, doc, "hero", "image"); state != ImageResolved {
		t.Fatalf("expected resolved state, got %s", state)
	}

	value, _ = doc.Field("hero", "image")
	stored := value.(map[string]interface{})
	if stored["url"] != "x" {
		t.Fatalf("server response not stored verbatim: %v", stored)
	}
}

func TestImageLifecycle_FailureRevertsToEmpty(t *testing.T) {
	doc := New()
	_ = doc.AddSection("about", DefaultsFor("about"))

	_ = doc.StartImageUpload("about", "image", FileMeta{FileName: "pic.png"})
	if err := doc.FailImageUpload("about", "image"); err != nil {
		t.Fatalf("fail upload: %v", err)
	}
	if state := imageState(t, doc, "about", "image"); state != ImageEmpty {
		t.Fatalf("expected empty after failure, got %s", state)
	}
}

func TestImageUpload_SingleFlightPerField(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", DefaultsFor("hero"))
	_ = doc.AddSection("about", DefaultsFor("about"))

	if err := doc.StartImageUpload("hero", "image", FileMeta{}); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if err := doc.StartImageUpload("hero", "image", FileMeta{}); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("expected in-flight error, got %v", err)
	}

	// Other fields are independent.
	if err := doc.StartImageUpload("about", "image", FileMeta{}); err != nil {
		t.Fatalf("unrelated field blocked: %v", err)
	}
	if state := imageState(t, doc, "hero", "image"); state != ImageLoading {
		t.Fatalf("hero field disturbed by about upload: %s", state)
	}
}

func TestResolve_RejectsMissingURLAndNoPending(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", DefaultsFor("hero"))

	if err := doc.ResolveImageUpload("hero", "image", map[string]interface{}{"url": "x"}); !errors.Is(err, ErrNoUploadPending) {
		t.Fatalf("expected no-pending error, got %v", err)
	}

	_ = doc.StartImageUpload("hero", "image", FileMeta{})
	if err := doc.ResolveImageUpload("hero", "image", map[string]interface{}{"fileName": "a"}); !errors.Is(err, ErrMissingImageURL) {
		t.Fatalf("expected missing-url error, got %v", err)
	}
	// A payload lacking url discards nothing: the field stays loading until
	// the caller fails the upload explicitly.
	if state := imageState(t, doc, "hero", "image"); state != ImageLoading {
		t.Fatalf("unexpected state after bad payload: %s", state)
	}
}

func TestSelectImage_GalleryPathSkipsLoading(t *testing.T) {
	doc := New()
	_ = doc.AddSection("gallery", DefaultsFor("gallery"))

	err := doc.SelectImage("gallery", "cover", map[string]interface{}{"url": "/uploads/a.png", "isServerImage": true})
	if err != nil {
		t.Fatalf("select image: %v", err)
	}
	if state := imageState(t, doc, "gallery", "cover"); state != ImageResolved {
		t.Fatalf("expected resolved, got %s", state)
	}

	if err := doc.RemoveImage("gallery", "cover"); err != nil {
		t.Fatalf("remove image: %v", err)
	}
	if state := imageState(t, doc, "gallery", "cover"); state != ImageEmpty {
		t.Fatalf("expected empty after removal, got %s", state)
	}
}

func TestExpireImageUploads(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", DefaultsFor("hero"))
	_ = doc.AddSection("about", DefaultsFor("about"))

	stale := map[string]interface{}{
		"loading":   true,
		"startedAt": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}
	if err := doc.Set("hero", "image", stale); err != nil {
		t.Fatalf("seed stale marker: %v", err)
	}
	if err := doc.StartImageUpload("about", "image", FileMeta{FileName: "fresh.png"}); err != nil {
		t.Fatalf("start fresh upload: %v", err)
	}

	expired := doc.ExpireImageUploads(time.Now().Add(-30 * time.Minute))
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if state := imageState(t, doc, "hero", "image"); state != ImageEmpty {
		t.Fatalf("stale field state = %s, want empty", state)
	}
	if state := imageState(t, doc, "about", "image"); state != ImageLoading {
		t.Fatalf("fresh field state = %s, want loading", state)
	}
}

func TestExpireImageUploads_MarkerWithoutTimestampExpires(t *testing.T) {
	doc := New()
	_ = doc.AddSection("hero", DefaultsFor("hero"))

	if err := doc.Set("hero", "image", map[string]interface{}{"loading": true}); err != nil {
		t.Fatalf("seed marker: %v", err)
	}

	if expired := doc.ExpireImageUploads(time.Now()); expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if state := imageState(t, doc, "hero", "image"); state != ImageEmpty {
		t.Fatalf("state = %s, want empty", state)
	}
}

func imageState(t *testing.T, doc *Document, key, field string) ImageState {
	t.Helper()
	value, _ := doc.Field(key, field)
	return ImageStateOf(value)
}
