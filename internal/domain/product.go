package domain

import "time"

// Product is a purchasable catalog item. Prices are integer pence.
// Orders snapshot name and price at creation time, so editing a product
// never rewrites history.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       int
	Active      bool
	SortOrder   int
	ImageURL    *string
	CreatedAt   time.Time
}
