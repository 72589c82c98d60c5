package store

import "strings"

// Preference is a user's saved skin type, favorite brand and product
// category. Every field is stored lower-cased.
type Preference struct {
	SkinType        string `json:"skin_type"`
	FavoriteBrand   string `json:"favorite_brand"`
	ProductCategory string `json:"product_category"`
}

// Normalize lower-cases and trims every field.
func (p Preference) Normalize() Preference {
	return Preference{
		SkinType:        strings.ToLower(strings.TrimSpace(p.SkinType)),
		FavoriteBrand:   strings.ToLower(strings.TrimSpace(p.FavoriteBrand)),
		ProductCategory: strings.ToLower(strings.TrimSpace(p.ProductCategory)),
	}
}
