package document

import (
	"fmt"
	"time"
)

// Custom section templates. Each template reads its own subset of fields;
// switching templates leaves the other templates' fields in place so that
// switching back restores prior content losslessly.
const (
	CustomTemplateImageLeft     = 1
	CustomTemplateImageRight    = 2
	CustomTemplateBanner        = 3
	CustomTemplateContentBlocks = 4
)

// ContentBlockTypes are the block kinds accepted by the content-blocks
// article composer (template 4).
var ContentBlockTypes = map[string]struct{}{
	"heading":   {},
	"paragraph": {},
	"image":     {},
	"video":     {},
	"quote":     {},
	"list":      {},
	"code":      {},
}

// ValidCustomTemplate reports whether n selects one of the four sub-schemas.
func ValidCustomTemplate(n int) bool {
	return n >= CustomTemplateImageLeft && n <= CustomTemplateContentBlocks
}

// ValidContentBlockType reports whether t is an accepted block kind.
func ValidContentBlockType(t string) bool {
	_, ok := ContentBlockTypes[t]
	return ok
}

func dynamicKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%d", prefix, now.UnixMilli())
}

// NewCustomKey returns a creation-time-stamped key for a custom section.
func NewCustomKey(now time.Time) string { return dynamicKey(CustomPrefix, now) }

// NewCodeKey returns a creation-time-stamped key for a code section.
func NewCodeKey(now time.Time) string { return dynamicKey(CodePrefix, now) }

// NewAIKey returns a creation-time-stamped key for an AI section.
func NewAIKey(now time.Time) string { return dynamicKey(AIPrefix, now) }

// CustomSectionDefaults seeds a custom section on template 1.
func CustomSectionDefaults() SectionData {
	return SectionData{
		"visible":       true,
		"template":      CustomTemplateImageLeft,
		"title":         "",
		"description":   "",
		"image":         nil,
		"buttonText":    "",
		"buttonLink":    "",
		"buttons":       []interface{}{},
		"contentBlocks": []interface{}{},
	}
}

// CodeSectionDefaults seeds a code section. The code string is raw markup;
// rendering safety is the renderer's concern, not the editor's.
func CodeSectionDefaults() SectionData {
	return SectionData{
		"visible": true,
		"title":   "",
		"code":    "",
	}
}

// AISectionDefaults seeds an AI section. Generated markup lands in the same
// code field the code section uses, so the renderer treats both alike.
func AISectionDefaults() SectionData {
	return SectionData{
		"visible":     true,
		"title":       "",
		"description": "",
		"code":        "",
	}
}

// SetCustomTemplate switches the active sub-schema of a custom section.
// Only the template field changes; the shallow-merge update contract keeps
// every other field untouched.
func (d *Document) SetCustomTemplate(key string, template int) error {
	if ParseKey(key).Kind != KindCustom {
		return fmt.Errorf("%s is not a custom section", key)
	}
	if !ValidCustomTemplate(template) {
		return fmt.Errorf("invalid custom section template %d", template)
	}
	if _, ok := d.Sections[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, key)
	}
	return d.Set(key, "template", template)
}
