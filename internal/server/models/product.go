package models

import (
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// Product is one row of the products table.
type Product struct {
	ID               string
	Name             string
	Slug             string
	Category         string
	Brand            string
	ViscosityGrade   string
	ShortDescription string
	Description      string
	Specifications   string
	MetaTitle        string
	MetaDescription  string
	ImageURL         *string
	DatasheetURL     *string
	IsActive         bool
	IsFeatured       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Fields returns the editable columns keyed by their wire names.
func (p *Product) Fields() catalog.Fields {
	return catalog.Fields{
		catalog.FieldName:             p.Name,
		catalog.FieldSlug:             p.Slug,
		catalog.FieldCategory:         p.Category,
		catalog.FieldBrand:            p.Brand,
		catalog.FieldViscosityGrade:   p.ViscosityGrade,
		catalog.FieldShortDescription: p.ShortDescription,
		catalog.FieldDescription:      p.Description,
		catalog.FieldSpecifications:   p.Specifications,
		catalog.FieldMetaTitle:        p.MetaTitle,
		catalog.FieldMetaDescription:  p.MetaDescription,
		catalog.FieldImageURL:         p.ImageURL,
		catalog.FieldDatasheetURL:     p.DatasheetURL,
		catalog.FieldIsActive:         p.IsActive,
		catalog.FieldIsFeatured:       p.IsFeatured,
	}
}

// ToCatalog joins the row with its sub-collections.
func (p *Product) ToCatalog(items map[catalog.Kind][]string) *catalog.Product {
	out := &catalog.Product{
		ID:        p.ID,
		Fields:    p.Fields().Clone(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, k := range catalog.Kinds {
		out.SetItems(k, append([]string{}, items[k]...))
	}
	return out
}
