package models

import (
	"database/sql/driver"
	"errors"

	"aboutwebsite-backend/internal/document"
)

// WebsiteData stores a website's section document as a jsonb column. It keeps
// the document package's flat wire shape both in the database and in API
// responses.
type WebsiteData document.Document

func (d *WebsiteData) doc() *document.Document {
	return (*document.Document)(d)
}

// Document exposes the underlying editable document.
func (d *WebsiteData) Document() *document.Document {
	return d.doc()
}

func (d WebsiteData) MarshalJSON() ([]byte, error) {
	doc := document.Document(d)
	return doc.MarshalJSON()
}

func (d *WebsiteData) UnmarshalJSON(raw []byte) error {
	return d.doc().UnmarshalJSON(raw)
}

func (d WebsiteData) Value() (driver.Value, error) {
	if len(d.Sections) == 0 && len(d.Order) == 0 && d.BusinessName == "" {
		return nil, nil
	}
	return d.MarshalJSON()
}

func (d *WebsiteData) Scan(value interface{}) error {
	if value == nil {
		*d = WebsiteData(*document.New())
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan WebsiteData")
	}
	return d.UnmarshalJSON(bytes)
}
