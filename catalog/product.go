package catalog

// Product is a single catalog entry as returned by the makeup API. Every
// field is sourced upstream and never mutated locally.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	ProductType string   `json:"product_type"`
	TagList     []string `json:"tag_list"`
	Price       string   `json:"price"`
	Currency    string   `json:"currency"`
	PriceSign   string   `json:"price_sign"`
	Description string   `json:"description"`
	ProductLink string   `json:"product_link"`
	ImageLink   string   `json:"image_link"`
}
