package service

import (
	"strings"
	"testing"
	"time"

	"aboutwebsite-backend/internal/document"
	"aboutwebsite-backend/internal/models"
)

func newTestBuilder(t *testing.T) (*BuilderService, *models.Website, uint) {
	t.Helper()
	websites, websiteRepo, userRepo := newTestWebsiteService(t)
	user := seedUser(t, userRepo, false)

	website, err := websites.Create(user.ID, models.CreateWebsiteRequest{
		Name:      "Asha Bakes",
		Subdomain: "asha-bakes",
	})
	if err != nil {
		t.Fatalf("create website: %v", err)
	}

	return NewBuilderService(websites, websiteRepo), website, user.ID
}

func TestUpdateField_MergePreservesSiblings(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	updated, err := builder.UpdateField(website.ID, userID, models.FieldUpdateRequest{
		SectionKey: "hero",
		Field:      "title",
		Value:      "Welcome",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	doc := updated.Data.Document()
	if got, _ := doc.Field("hero", "title"); got != "Welcome" {
		t.Fatalf("title = %v", got)
	}
	if got, _ := doc.Field("hero", "visible"); got != true {
		t.Fatalf("sibling field lost: visible = %v", got)
	}
}

func TestUpdateField_TopLevel(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	updated, err := builder.UpdateField(website.ID, userID, models.FieldUpdateRequest{
		SectionKey: document.KeyTagline,
		Value:      "Fresh every morning",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Data.Document().Tagline != "Fresh every morning" {
		t.Fatalf("tagline not set")
	}
}

func TestUpdateField_WrongOwner(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	if _, err := builder.UpdateField(website.ID, userID+1, models.FieldUpdateRequest{
		SectionKey: "hero",
		Field:      "title",
		Value:      "x",
	}); err != ErrNotOwner {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestAddSection_CanonicalNumbering(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	// The default document already has a services section.
	_, key, err := builder.AddSection(website.ID, userID, "services")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if key != "services_2" {
		t.Fatalf("key = %q, want services_2", key)
	}

	_, key, err = builder.AddSection(website.ID, userID, "services")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if key != "services_3" {
		t.Fatalf("key = %q, want services_3", key)
	}
}

func TestAddSection_UnknownType(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	if _, _, err := builder.AddSection(website.ID, userID, "carousel"); err != ErrUnknownSectionType {
		t.Fatalf("err = %v, want ErrUnknownSectionType", err)
	}
}

func TestAddSection_DynamicKinds(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	cases := map[string]string{
		"custom": document.CustomPrefix,
		"code":   document.CodePrefix,
		"ai":     document.AIPrefix,
	}
	for sectionType, prefix := range cases {
		updated, key, err := builder.AddSection(website.ID, userID, sectionType)
		if err != nil {
			t.Fatalf("add %s: %v", sectionType, err)
		}
		if !strings.HasPrefix(key, prefix) {
			t.Fatalf("key %q missing prefix %q", key, prefix)
		}
		if _, ok := updated.Data.Document().Section(key); !ok {
			t.Fatalf("section %q not stored", key)
		}
	}
}

func TestRemoveSection_DuplicateNeedsConfirm(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	_, key, err := builder.DuplicateSection(website.ID, userID, "services")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if _, err := builder.RemoveSection(website.ID, userID, key, false); err != document.ErrConfirmRequired {
		t.Fatalf("err = %v, want ErrConfirmRequired", err)
	}

	updated, err := builder.RemoveSection(website.ID, userID, key, true)
	if err != nil {
		t.Fatalf("confirmed remove: %v", err)
	}
	if _, ok := updated.Data.Document().Section(key); ok {
		t.Fatalf("section %q still present", key)
	}
}

func TestMoveAndReorder(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	before := website.Data.Document().Order
	if len(before) < 3 {
		t.Fatalf("default order too short: %v", before)
	}
	first, second := before[0], before[1]

	updated, err := builder.MoveSection(website.ID, userID, second, "up")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	order := updated.Data.Document().Order
	if order[0] != second || order[1] != first {
		t.Fatalf("move up failed: %v", order)
	}

	updated, err = builder.ReorderSections(website.ID, userID, order[len(order)-1], order[0])
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := updated.Data.Document().Order[0]; got != order[len(order)-1] {
		t.Fatalf("reorder failed, first = %q", got)
	}
}

func TestSetCustomTemplate_LosslessSwitch(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	_, key, err := builder.AddSection(website.ID, userID, "custom")
	if err != nil {
		t.Fatalf("add custom: %v", err)
	}

	if _, err := builder.UpdateField(website.ID, userID, models.FieldUpdateRequest{
		SectionKey: key,
		Field:      "title",
		Value:      "Our Story",
	}); err != nil {
		t.Fatalf("set title: %v", err)
	}

	updated, err := builder.SetCustomTemplate(website.ID, userID, key, document.CustomTemplateContentBlocks)
	if err != nil {
		t.Fatalf("set template: %v", err)
	}
	if got, _ := updated.Data.Document().Field(key, "title"); got != "Our Story" {
		t.Fatalf("template switch lost title: %v", got)
	}

	updated, err = builder.SetCustomTemplate(website.ID, userID, key, document.CustomTemplateImageLeft)
	if err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if got, _ := updated.Data.Document().Field(key, "template"); got != document.CustomTemplateImageLeft {
		t.Fatalf("template = %v", got)
	}
}

func TestSetCustomTemplate_RejectsNonCustom(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	if _, err := builder.SetCustomTemplate(website.ID, userID, "hero", 2); err == nil {
		t.Fatalf("expected error for non-custom section")
	}
}

func TestImageUploadLifecycle(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	meta := document.FileMeta{FileName: "shop.jpg", FileSize: 2048, FileType: "image/jpeg"}

	updated, err := builder.BeginImageUpload(website.ID, userID, "hero", "image", meta)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	value, _ := updated.Data.Document().Field("hero", "image")
	if document.ImageStateOf(value) != document.ImageLoading {
		t.Fatalf("state = %v, want loading", document.ImageStateOf(value))
	}

	// A second upload into the same field while one is in flight is rejected.
	if _, err := builder.BeginImageUpload(website.ID, userID, "hero", "image", meta); err == nil {
		t.Fatalf("expected in-flight rejection")
	}

	updated, err = builder.CompleteImageUpload(website.ID, userID, "hero", "image", map[string]interface{}{
		"url":           "/uploads/shop.jpg",
		"isServerImage": true,
		"fileName":      "shop.jpg",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	value, _ = updated.Data.Document().Field("hero", "image")
	if document.ImageStateOf(value) != document.ImageResolved {
		t.Fatalf("state = %v, want resolved", document.ImageStateOf(value))
	}
}

func TestImageUpload_AbortReverts(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	meta := document.FileMeta{FileName: "shop.jpg"}
	if _, err := builder.BeginImageUpload(website.ID, userID, "hero", "image", meta); err != nil {
		t.Fatalf("begin: %v", err)
	}

	updated, err := builder.AbortImageUpload(website.ID, userID, "hero", "image")
	if err != nil {
		t.Fatalf("abort: %v", err)
	}
	value, _ := updated.Data.Document().Field("hero", "image")
	if document.ImageStateOf(value) != document.ImageEmpty {
		t.Fatalf("state = %v, want empty", document.ImageStateOf(value))
	}
}

func TestSelectImage_FromGallery(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	updated, err := builder.SelectImage(website.ID, userID, models.SelectImageRequest{
		SectionKey: "about",
		Field:      "image",
		Image: map[string]interface{}{
			"url":           "https://images.example.com/a.jpg",
			"isServerImage": false,
		},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	value, _ := updated.Data.Document().Field("about", "image")
	if document.ImageStateOf(value) != document.ImageResolved {
		t.Fatalf("state = %v, want resolved", document.ImageStateOf(value))
	}

	updated, err = builder.RemoveImage(website.ID, userID, "about", "image")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	value, _ = updated.Data.Document().Field("about", "image")
	if document.ImageStateOf(value) != document.ImageEmpty {
		t.Fatalf("state = %v, want empty", document.ImageStateOf(value))
	}
}

func TestExpireStaleUploads(t *testing.T) {
	builder, website, userID := newTestBuilder(t)

	staleMarker := map[string]interface{}{
		"loading":   true,
		"startedAt": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}
	if _, err := builder.UpdateField(website.ID, userID, models.FieldUpdateRequest{
		SectionKey: "hero",
		Field:      "image",
		Value:      staleMarker,
	}); err != nil {
		t.Fatalf("seed stale marker: %v", err)
	}

	if _, err := builder.BeginImageUpload(website.ID, userID, "about", "image", document.FileMeta{FileName: "fresh.png"}); err != nil {
		t.Fatalf("begin fresh upload: %v", err)
	}

	expired, err := builder.ExpireStaleUploads(30 * time.Minute)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	current, err := builder.websites.GetOwned(website.ID, userID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	doc := current.Data.Document()
	if value, _ := doc.Field("hero", "image"); document.ImageStateOf(value) != document.ImageEmpty {
		t.Fatalf("stale field not cleared: %v", value)
	}
	if value, _ := doc.Field("about", "image"); document.ImageStateOf(value) != document.ImageLoading {
		t.Fatalf("fresh upload was cleared: %v", value)
	}
}
