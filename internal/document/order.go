package document

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmRequired is returned when a duplicate section is removed
	// without the caller confirming the destructive action first.
	ErrConfirmRequired = errors.New("removing a duplicate section requires confirmation")

	ErrSectionExists = errors.New("section already exists")
)

// indexOf returns the position of key in the order, or -1.
func (d *Document) indexOf(key string) int {
	for i, k := range d.Order {
		if k == key {
			return i
		}
	}
	return -1
}

// MoveUp swaps the section with its predecessor. Moving the first section is
// a no-op, matching the disabled state of the corresponding control.
func (d *Document) MoveUp(key string) {
	i := d.indexOf(key)
	if i <= 0 {
		return
	}
	d.Order[i-1], d.Order[i] = d.Order[i], d.Order[i-1]
}

// MoveDown swaps the section with its successor. Moving the last section is a
// no-op.
func (d *Document) MoveDown(key string) {
	i := d.indexOf(key)
	if i < 0 || i >= len(d.Order)-1 {
		return
	}
	d.Order[i], d.Order[i+1] = d.Order[i+1], d.Order[i]
}

// Reorder moves the dragged section to the target section's position. Both
// keys must be present; unknown keys make the call a no-op so that a stale
// drag event cannot corrupt the order.
func (d *Document) Reorder(draggedKey, targetKey string) {
	if draggedKey == targetKey {
		return
	}
	from := d.indexOf(draggedKey)
	to := d.indexOf(targetKey)
	if from < 0 || to < 0 {
		return
	}

	next := make([]string, 0, len(d.Order))
	next = append(next, d.Order[:from]...)
	next = append(next, d.Order[from+1:]...)

	reordered := make([]string, 0, len(d.Order))
	reordered = append(reordered, next[:to]...)
	reordered = append(reordered, draggedKey)
	reordered = append(reordered, next[to:]...)
	d.Order = reordered
}

// AddSection inserts a section at the end of the order, seeding its data. The
// key must not collide with an existing section.
func (d *Document) AddSection(key string, data SectionData) error {
	if d.Sections == nil {
		d.Sections = make(map[string]SectionData)
	}
	if _, ok := d.Sections[key]; ok {
		return fmt.Errorf("%w: %s", ErrSectionExists, key)
	}
	if data == nil {
		data = SectionData{}
	}
	d.Sections[key] = data
	d.Order = append(d.Order, key)
	return nil
}

// RemoveSection deletes the data entry and the order entry together. Removing
// a duplicate instance (key with a numeric suffix) requires confirmed=true;
// removing a bare canonical section does not.
func (d *Document) RemoveSection(key string, confirmed bool) error {
	if _, ok := d.Sections[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, key)
	}

	if ParseKey(key).Instance > 1 && !confirmed {
		return ErrConfirmRequired
	}

	delete(d.Sections, key)
	if i := d.indexOf(key); i >= 0 {
		d.Order = append(d.Order[:i], d.Order[i+1:]...)
	}
	return nil
}

// NextKey picks the key for a new instance of a base section type. The bare
// key is used when it is currently free, even if a suffixed duplicate exists
// (a deleted base key becomes reusable). Otherwise the next numeric suffix is
// max(existing suffixes)+1, never lower than 2, so suffixes grow
// monotonically and deleted numbers are not reissued.
func (d *Document) NextKey(base string) string {
	if _, ok := d.Sections[base]; !ok {
		return base
	}

	max := 1
	for key := range d.Sections {
		b, instance := splitSuffix(key)
		if b == base && instance > max {
			max = instance
		}
	}
	return InstanceKey(base, max+1)
}

// Duplicate clones an existing section under the next free key for its base
// type and appends it to the order.
func (d *Document) Duplicate(key string) (string, error) {
	source, ok := d.Sections[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, key)
	}

	base, _ := splitSuffix(key)
	newKey := d.NextKey(base)

	copied := make(SectionData, len(source))
	for k, v := range source {
		copied[k] = v
	}
	if err := d.AddSection(newKey, copied); err != nil {
		return "", err
	}
	return newKey, nil
}
