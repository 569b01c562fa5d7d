package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Reserved top-level keys inside the flat document object. Everything else is a
// section entry.
const (
	KeySectionOrder = "sectionOrder"
	KeyBusinessName = "businessName"
	KeyTagline      = "tagline"
	KeyTheme        = "theme"
)

var (
	ErrUnknownTopLevelField = errors.New("unknown top-level field")
	ErrSectionNotFound      = errors.New("section not found")
	ErrInvalidSectionValue  = errors.New("section value must be a JSON object")
	ErrInvalidOrderValue    = errors.New("section order must be a list of keys")
)

// SectionData is the open, per-section bag of fields. Its shape depends on the
// section type; the minimal fallback schema is title/subtitle/description plus
// a visible flag.
type SectionData map[string]interface{}

// Document is a website's editable content: named sections, their display
// order and a handful of top-level fields.
type Document struct {
	BusinessName string
	Tagline      string
	Theme        string
	Order        []string
	Sections     map[string]SectionData
}

// New returns an empty document ready to receive sections.
func New() *Document {
	return &Document{
		Sections: make(map[string]SectionData),
		Order:    []string{},
	}
}

func isReservedKey(key string) bool {
	switch key {
	case KeySectionOrder, KeyBusinessName, KeyTagline, KeyTheme:
		return true
	}
	return false
}

// Set is the universal update contract. With an empty field the value replaces
// the whole entry at key: a nil value deletes a section, the reserved
// sectionOrder key swaps the order list and the reserved top-level keys accept
// string values. With a non-empty field only that key inside the section is
// replaced; sibling fields are preserved.
func (d *Document) Set(key, field string, value interface{}) error {
	if d.Sections == nil {
		d.Sections = make(map[string]SectionData)
	}

	if field == "" {
		return d.setWhole(key, value)
	}

	// Reserved keys hold scalars or the order list; they have no nested
	// fields to merge into.
	if isReservedKey(key) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownTopLevelField, key, field)
	}

	section := d.Sections[key]
	merged := make(SectionData, len(section)+1)
	for k, v := range section {
		merged[k] = v
	}
	merged[field] = value
	d.Sections[key] = merged
	return nil
}

func (d *Document) setWhole(key string, value interface{}) error {
	switch key {
	case KeySectionOrder:
		order, err := toOrder(value)
		if err != nil {
			return err
		}
		d.Order = order
		return nil
	case KeyBusinessName:
		d.BusinessName = toString(value)
		return nil
	case KeyTagline:
		d.Tagline = toString(value)
		return nil
	case KeyTheme:
		d.Theme = toString(value)
		return nil
	}

	if value == nil {
		delete(d.Sections, key)
		return nil
	}

	data, err := toSectionData(value)
	if err != nil {
		// A whole-entry write that is neither an object nor nil can only
		// have been aimed at a top-level field, and key is not one.
		return fmt.Errorf("%w: %s", ErrUnknownTopLevelField, key)
	}
	d.Sections[key] = data
	return nil
}

// Section returns the data stored under key.
func (d *Document) Section(key string) (SectionData, bool) {
	data, ok := d.Sections[key]
	return data, ok
}

// Field reads a single field from a section.
func (d *Document) Field(key, field string) (interface{}, bool) {
	section, ok := d.Sections[key]
	if !ok {
		return nil, false
	}
	value, ok := section[field]
	return value, ok
}

// Validate checks the order/data consistency invariant: every section key
// appears in the order exactly once and the order references no missing
// sections.
func (d *Document) Validate() error {
	seen := make(map[string]int, len(d.Order))
	for _, key := range d.Order {
		if isReservedKey(key) {
			return fmt.Errorf("reserved key %q in section order", key)
		}
		seen[key]++
		if seen[key] > 1 {
			return fmt.Errorf("duplicate key %q in section order", key)
		}
		if _, ok := d.Sections[key]; !ok {
			return fmt.Errorf("ordered key %q has no section data", key)
		}
	}

	for key := range d.Sections {
		if _, ok := seen[key]; !ok {
			return fmt.Errorf("section %q missing from section order", key)
		}
	}
	return nil
}

// Clone returns a deep copy via JSON round trip. Section values are arbitrary
// decoded JSON, so the round trip is the only safe generic copy.
func (d *Document) Clone() (*Document, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	clone := New()
	if err := json.Unmarshal(raw, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// MarshalJSON flattens the document into the wire shape: top-level fields,
// sectionOrder and one entry per section in a single object.
func (d *Document) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(d.Sections)+4)
	flat[KeyBusinessName] = d.BusinessName
	flat[KeyTagline] = d.Tagline
	flat[KeyTheme] = d.Theme
	order := d.Order
	if order == nil {
		order = []string{}
	}
	flat[KeySectionOrder] = order
	for key, data := range d.Sections {
		flat[key] = data
	}
	return json.Marshal(flat)
}

// UnmarshalJSON accepts the flat wire shape. Sections that are not listed in
// sectionOrder are appended in lexical order so that legacy documents load
// into a valid state.
func (d *Document) UnmarshalJSON(raw []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return err
	}

	d.Sections = make(map[string]SectionData)
	d.Order = []string{}

	if v, ok := flat[KeyBusinessName]; ok {
		_ = json.Unmarshal(v, &d.BusinessName)
	}
	if v, ok := flat[KeyTagline]; ok {
		_ = json.Unmarshal(v, &d.Tagline)
	}
	if v, ok := flat[KeyTheme]; ok {
		_ = json.Unmarshal(v, &d.Theme)
	}
	if v, ok := flat[KeySectionOrder]; ok {
		if err := json.Unmarshal(v, &d.Order); err != nil {
			return ErrInvalidOrderValue
		}
	}

	for key, v := range flat {
		if isReservedKey(key) {
			continue
		}
		var data SectionData
		if err := json.Unmarshal(v, &data); err != nil {
			return fmt.Errorf("section %q: %w", key, ErrInvalidSectionValue)
		}
		if data == nil {
			data = SectionData{}
		}
		d.Sections[key] = data
	}

	ordered := make(map[string]struct{}, len(d.Order))
	kept := d.Order[:0]
	for _, key := range d.Order {
		if _, ok := d.Sections[key]; !ok {
			continue
		}
		if _, dup := ordered[key]; dup {
			continue
		}
		ordered[key] = struct{}{}
		kept = append(kept, key)
	}
	d.Order = kept

	var orphans []string
	for key := range d.Sections {
		if _, ok := ordered[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	d.Order = append(d.Order, orphans...)

	return nil
}

func toString(value interface{}) string {
	s, _ := value.(string)
	return s
}

func toOrder(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []interface{}:
		order := make([]string, 0, len(v))
		for _, item := range v {
			key, ok := item.(string)
			if !ok {
				return nil, ErrInvalidOrderValue
			}
			order = append(order, key)
		}
		return order, nil
	}
	return nil, ErrInvalidOrderValue
}

func toSectionData(value interface{}) (SectionData, error) {
	switch v := value.(type) {
	case SectionData:
		return v, nil
	case map[string]interface{}:
		return SectionData(v), nil
	}
	return nil, ErrInvalidSectionValue
}
