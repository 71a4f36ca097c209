package model

// Product is a catalog entry. The catalog is static marketing data; it only
// exists server-side so inquiry emails can name the piece a visitor asked
// about.
type Product struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	CustomMade bool   `json:"custom_made"`
}
