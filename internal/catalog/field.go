package catalog

import (
	"fmt"
	"sort"
)

// Field is the wire name of an editable product field.
type Field string

const (
	FieldName             Field = "name"
	FieldSlug             Field = "slug"
	FieldCategory         Field = "category"
	FieldBrand            Field = "brand"
	FieldViscosityGrade   Field = "viscosityGrade"
	FieldShortDescription Field = "shortDescription"
	FieldDescription      Field = "description"
	FieldSpecifications   Field = "specifications"
	FieldMetaTitle        Field = "metaTitle"
	FieldMetaDescription  Field = "metaDescription"
	FieldImageURL         Field = "imageUrl"
	FieldDatasheetURL     Field = "datasheetUrl"
	FieldIsActive         Field = "isActive"
	FieldIsFeatured       Field = "isFeatured"
)

// FieldKind tells which Go type a field value has.
type FieldKind int

const (
	KindString         FieldKind = iota // string
	KindNullableString                  // *string, nil meaning NULL
	KindBool                            // bool
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNullableString:
		return "nullable string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

var fieldKinds = map[Field]FieldKind{
	FieldName:             KindString,
	FieldSlug:             KindString,
	FieldCategory:         KindString,
	FieldBrand:            KindString,
	FieldViscosityGrade:   KindString,
	FieldShortDescription: KindString,
	FieldDescription:      KindString,
	FieldSpecifications:   KindString,
	FieldMetaTitle:        KindString,
	FieldMetaDescription:  KindString,
	FieldImageURL:         KindNullableString,
	FieldDatasheetURL:     KindNullableString,
	FieldIsActive:         KindBool,
	FieldIsFeatured:       KindBool,
}

// Kind returns the value kind of f and whether f is a recognised field.
func (f Field) Kind() (FieldKind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// Valid reports whether f is one of the editable fields.
func (f Field) Valid() bool {
	_, ok := fieldKinds[f]
	return ok
}

// AllFields lists every editable field in a stable order.
func AllFields() []Field {
	out := make([]Field, 0, len(fieldKinds))
	for f := range fieldKinds {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NormalizeValue checks v against the kind of f and returns it in canonical
// form: string for string fields, bool for flags, and *string (possibly nil)
// for nullable strings. A plain string is accepted for nullable fields.
func NormalizeValue(f Field, v any) (any, error) {
	kind, ok := f.Kind()
	if !ok {
		return nil, fmt.Errorf("unknown field %q", f)
	}

	switch kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindNullableString:
		switch s := v.(type) {
		case nil:
			return (*string)(nil), nil
		case *string:
			if s == nil {
				return (*string)(nil), nil
			}
			c := *s
			return &c, nil
		case string:
			return &s, nil
		}
	}
	return nil, fmt.Errorf("field %q wants %s, got %T", f, kind, v)
}
