package domain

import "time"

// Product is a catalog entry. Image holds a URL or server-relative path; the
// file itself is stored elsewhere.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Price       float64   `json:"price" validate:"gte=0"`
	Description string    `json:"description" validate:"required"`
	Image       string    `json:"image" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
}
