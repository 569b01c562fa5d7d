package document

// SectionType describes one canonical, built-in section kind.
type SectionType struct {
	Type        string
	Name        string
	Description string
	Defaults    func() SectionData
}

var canonicalTypes = map[string]SectionType{
	"header": {
		Type: "header",
		Name: "Header",
		Defaults: func() SectionData {
			return SectionData{
				"visible":    true,
				"logoText":   "",
				"menuItems":  []interface{}{},
				"showButton": true,
				"buttonText": "Contact Us",
			}
		},
	},
	"hero": {
		Type: "hero",
		Name: "Hero",
		Defaults: func() SectionData {
			return SectionData{
				"visible":     true,
				"title":       "Welcome",
				"subtitle":    "",
				"description": "",
				"buttonText":  "Get Started",
				"buttonLink":  "#contact",
				"image":       nil,
			}
		},
	},
	"about": {
		Type: "about",
		Name: "About",
		Defaults: func() SectionData {
			return SectionData{
				"visible":     true,
				"title":       "About Us",
				"description": "",
				"image":       nil,
			}
		},
	},
	"services": {
		Type: "services",
		Name: "Services",
		Defaults: func() SectionData {
			return SectionData{
				"visible":  true,
				"title":    "Our Services",
				"subtitle": "",
				"items":    []interface{}{},
			}
		},
	},
	"portfolio": {
		Type: "portfolio",
		Name: "Portfolio",
		Defaults: func() SectionData {
			return SectionData{
				"visible":  true,
				"title":    "Our Work",
				"projects": []interface{}{},
			}
		},
	},
	"gallery": {
		Type: "gallery",
		Name: "Gallery",
		Defaults: func() SectionData {
			return SectionData{
				"visible": true,
				"title":   "Gallery",
				"images":  []interface{}{},
			}
		},
	},
	"blog": {
		Type: "blog",
		Name: "Blog",
		Defaults: func() SectionData {
			return SectionData{
				"visible": true,
				"title":   "Latest Posts",
				"posts":   []interface{}{},
			}
		},
	},
	"testimonials": {
		Type: "testimonials",
		Name: "Testimonials",
		Defaults: func() SectionData {
			return SectionData{
				"visible": true,
				"title":   "What Clients Say",
				"items":   []interface{}{},
			}
		},
	},
	"contact": {
		Type: "contact",
		Name: "Contact",
		Defaults: func() SectionData {
			return SectionData{
				"visible": true,
				"title":   "Get In Touch",
				"email":   "",
				"phone":   "",
				"address": "",
			}
		},
	},
	"popup": {
		Type: "popup",
		Name: "Popup",
		Defaults: func() SectionData {
			return SectionData{
				"visible":     true,
				"title":       "",
				"description": "",
				"buttonText":  "Close",
				"delay":       3,
				"image":       nil,
			}
		},
	},
	"footer": {
		Type: "footer",
		Name: "Footer",
		Defaults: func() SectionData {
			return SectionData{
				"visible":     true,
				"text":        "",
				"socialLinks": []interface{}{},
			}
		},
	},
}

// IsCanonicalType reports whether base is one of the fixed section kinds.
func IsCanonicalType(base string) bool {
	_, ok := canonicalTypes[base]
	return ok
}

// CanonicalType returns the type descriptor for base.
func CanonicalType(base string) (SectionType, bool) {
	t, ok := canonicalTypes[base]
	return t, ok
}

// CanonicalTypeNames lists the built-in section types.
func CanonicalTypeNames() []string {
	names := make([]string, 0, len(canonicalTypes))
	for name := range canonicalTypes {
		names = append(names, name)
	}
	return names
}

// DefaultsFor seeds section data for a base type. Unknown types get the
// minimal fallback schema handled by the generic editor.
func DefaultsFor(base string) SectionData {
	if t, ok := canonicalTypes[base]; ok {
		return t.Defaults()
	}
	return SectionData{
		"visible":     true,
		"title":       "",
		"subtitle":    "",
		"description": "",
	}
}

// DefaultDocument builds the document seeded at first provisioning.
func DefaultDocument(businessName, tagline string) *Document {
	doc := New()
	doc.BusinessName = businessName
	doc.Tagline = tagline
	doc.Theme = "default"

	for _, base := range []string{"header", "hero", "about", "services", "gallery", "contact", "footer"} {
		data := DefaultsFor(base)
		if base == "hero" {
			data["title"] = businessName
			data["subtitle"] = tagline
		}
		_ = doc.AddSection(base, data)
	}
	return doc
}
