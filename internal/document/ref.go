package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates section variants. Keys remain the persisted format, but
// all dispatch happens on the parsed kind rather than on string prefixes
// scattered around the codebase.
type Kind string

const (
	KindCanonical Kind = "canonical"
	KindCustom    Kind = "custom"
	KindCode      Kind = "code"
	KindAI        Kind = "ai"
	KindFallback  Kind = "fallback"
)

// Dynamic key prefixes. The part after the underscore is the creation
// timestamp that keeps user-created sections unique.
const (
	CustomPrefix = "customSection_"
	CodePrefix   = "codeSection_"
	AIPrefix     = "aiSection_"
)

// SectionRef is the parsed form of a section key.
type SectionRef struct {
	Key      string
	Kind     Kind
	Base     string
	Instance int // 1 for the bare key, N for the _N duplicate
}

// ParseKey resolves a section key into its tagged form. Parsing is pure:
// the same key always yields the same ref.
func ParseKey(key string) SectionRef {
	switch {
	case strings.HasPrefix(key, CustomPrefix):
		return SectionRef{Key: key, Kind: KindCustom, Base: key, Instance: 1}
	case strings.HasPrefix(key, CodePrefix):
		return SectionRef{Key: key, Kind: KindCode, Base: key, Instance: 1}
	case strings.HasPrefix(key, AIPrefix):
		return SectionRef{Key: key, Kind: KindAI, Base: key, Instance: 1}
	}

	base, instance := splitSuffix(key)
	if IsCanonicalType(base) {
		return SectionRef{Key: key, Kind: KindCanonical, Base: base, Instance: instance}
	}
	return SectionRef{Key: key, Kind: KindFallback, Base: base, Instance: instance}
}

// EditorFor names the editor that should handle the key: the dynamic kind for
// custom/code/ai sections, the canonical base type when one matches, or
// "generic" for everything else.
func EditorFor(key string) string {
	ref := ParseKey(key)
	switch ref.Kind {
	case KindCustom:
		return "custom"
	case KindCode:
		return "code"
	case KindAI:
		return "ai"
	case KindCanonical:
		return ref.Base
	}
	return "generic"
}

// splitSuffix strips a trailing _<digits> duplicate suffix. Suffixes below 2
// are not produced by the duplication algorithm and are treated as part of the
// base name.
func splitSuffix(key string) (string, int) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return key, 1
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil || n < 2 {
		return key, 1
	}
	return key[:idx], n
}

// InstanceKey builds the key for the nth instance of a base type.
func InstanceKey(base string, instance int) string {
	if instance <= 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, instance)
}
