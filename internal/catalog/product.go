package catalog

import (
	"fmt"
	"time"
)

// Kind names one of the ordered sub-collections of a product.
type Kind string

const (
	KindFeatures     Kind = "features"
	KindApplications Kind = "applications"
	KindPackSizes    Kind = "packSizes"
)

// Kinds lists the sub-collections in display order.
var Kinds = []Kind{KindFeatures, KindApplications, KindPackSizes}

func (k Kind) Valid() bool {
	switch k {
	case KindFeatures, KindApplications, KindPackSizes:
		return true
	}
	return false
}

// ParseKind accepts the wire name and the short names used on the command line.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "features", "feature":
		return KindFeatures, nil
	case "applications", "application", "apps", "app":
		return KindApplications, nil
	case "packSizes", "packsizes", "packs", "pack":
		return KindPackSizes, nil
	}
	return "", fmt.Errorf("unknown sub-collection %q", s)
}

// MediaKind is the type of an uploaded file attached to a product.
type MediaKind string

const (
	MediaImage     MediaKind = "image"
	MediaDatasheet MediaKind = "datasheet"
)

func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaDatasheet
}

// Field returns the product field that stores the public URL of this media kind.
func (k MediaKind) Field() Field {
	if k == MediaDatasheet {
		return FieldDatasheetURL
	}
	return FieldImageURL
}

// Media is the result of a finished upload.
type Media struct {
	ID  string
	URL string
}

// Fields maps editable field names to values (string, bool or *string).
type Fields map[Field]any

// Clone returns a shallow copy; *string values are copied too so the copy
// can be mutated independently.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		if p, ok := v.(*string); ok && p != nil {
			c := *p
			v = &c
		}
		out[k] = v
	}
	return out
}

// String returns the string value of a string field, or "".
func (f Fields) String(name Field) string {
	s, _ := f[name].(string)
	return s
}

// Bool returns the value of a bool field, or false.
func (f Fields) Bool(name Field) bool {
	b, _ := f[name].(bool)
	return b
}

// NullableString returns the value of a nullable field, or nil.
func (f Fields) NullableString(name Field) *string {
	p, _ := f[name].(*string)
	return p
}

// Patch holds the fields sent in one update. Absent keys are left untouched
// by the server.
type Patch map[Field]any

// Product is the persisted record as returned by the server.
type Product struct {
	ID           string
	Fields       Fields
	Features     []string
	Applications []string
	PackSizes    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Items returns the sub-collection of kind k.
func (p *Product) Items(k Kind) []string {
	switch k {
	case KindFeatures:
		return p.Features
	case KindApplications:
		return p.Applications
	case KindPackSizes:
		return p.PackSizes
	}
	return nil
}

// SetItems replaces the sub-collection of kind k.
func (p *Product) SetItems(k Kind, items []string) {
	switch k {
	case KindFeatures:
		p.Features = items
	case KindApplications:
		p.Applications = items
	case KindPackSizes:
		p.PackSizes = items
	}
}

// Clone deep-copies the product.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Fields = p.Fields.Clone()
	c.Features = append([]string(nil), p.Features...)
	c.Applications = append([]string(nil), p.Applications...)
	c.PackSizes = append([]string(nil), p.PackSizes...)
	return &c
}
