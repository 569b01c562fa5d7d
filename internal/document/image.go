package document

import (
	"errors"
	"fmt"
	"time"
)

// ImageState is the lifecycle state of an image-valued field.
type ImageState string

const (
	ImageEmpty    ImageState = "empty"
	ImageLoading  ImageState = "loading"
	ImageResolved ImageState = "resolved"
)

var (
	ErrUploadInFlight  = errors.New("an upload is already in progress for this field")
	ErrNoUploadPending = errors.New("no upload in progress for this field")
	ErrMissingImageURL = errors.New("upload result is missing a url")
)

// FileMeta carries the local file attributes written into the loading marker
// before the upload call resolves.
type FileMeta struct {
	FileName string
	FileSize int64
	FileType string
}

// ImageStateOf classifies a stored field value. A field counts as resolved
// only when it carries a non-empty url and no loading flag.
func ImageStateOf(value interface{}) ImageState {
	m, ok := value.(map[string]interface{})
	if !ok {
		return ImageEmpty
	}
	if loading, _ := m["loading"].(bool); loading {
		return ImageLoading
	}
	if url, _ := m["url"].(string); url != "" {
		return ImageResolved
	}
	return ImageEmpty
}

// StartImageUpload writes the optimistic loading marker. Only one upload may
// be in flight per field; other fields are unaffected because the marker
// lives at the field's own path.
func (d *Document) StartImageUpload(key, field string, meta FileMeta) error {
	current, _ := d.Field(key, field)
	if ImageStateOf(current) == ImageLoading {
		return fmt.Errorf("%w: %s.%s", ErrUploadInFlight, key, field)
	}

	return d.Set(key, field, map[string]interface{}{
		"loading":   true,
		"startedAt": time.Now().UTC().Format(time.RFC3339),
		"fileName":  meta.FileName,
		"fileSize":  meta.FileSize,
		"fileType":  meta.FileType,
	})
}

// ExpireImageUploads clears loading markers whose upload started before
// cutoff. Markers without a readable start time are treated as expired so a
// crashed upload can never pin a field in the loading state forever. Returns
// the number of fields cleared.
func (d *Document) ExpireImageUploads(cutoff time.Time) int {
	expired := 0
	for key, section := range d.Sections {
		for field, value := range section {
			if ImageStateOf(value) != ImageLoading {
				continue
			}
			marker := value.(map[string]interface{})
			startedAt, _ := marker["startedAt"].(string)
			started, err := time.Parse(time.RFC3339, startedAt)
			if err == nil && !started.Before(cutoff) {
				continue
			}
			_ = d.Set(key, field, nil)
			expired++
		}
	}
	return expired
}

// ResolveImageUpload replaces the loading marker with the server's response,
// stored verbatim. The result must contain a url.
func (d *Document) ResolveImageUpload(key, field string, result map[string]interface{}) error {
	current, _ := d.Field(key, field)
	if ImageStateOf(current) != ImageLoading {
		return fmt.Errorf("%w: %s.%s", ErrNoUploadPending, key, field)
	}
	if url, _ := result["url"].(string); url == "" {
		return ErrMissingImageURL
	}
	return d.Set(key, field, result)
}

// FailImageUpload discards the loading marker, reverting the field to empty.
func (d *Document) FailImageUpload(key, field string) error {
	current, _ := d.Field(key, field)
	if ImageStateOf(current) != ImageLoading {
		return fmt.Errorf("%w: %s.%s", ErrNoUploadPending, key, field)
	}
	return d.Set(key, field, nil)
}

// SelectImage stores an already-uploaded image on the field without going
// through the loading state (the gallery picker path). It refuses to
// overwrite an in-flight upload.
func (d *Document) SelectImage(key, field string, image map[string]interface{}) error {
	current, _ := d.Field(key, field)
	if ImageStateOf(current) == ImageLoading {
		return fmt.Errorf("%w: %s.%s", ErrUploadInFlight, key, field)
	}
	if url, _ := image["url"].(string); url == "" {
		return ErrMissingImageURL
	}
	return d.Set(key, field, image)
}

// RemoveImage clears a resolved image field.
func (d *Document) RemoveImage(key, field string) error {
	return d.Set(key, field, nil)
}
