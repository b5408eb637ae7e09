package menu

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Category groups menu items on the storefront.
type Category string

const (
	CategorySoups   Category = "Soups"
	CategoryRice    Category = "Rice"
	CategorySwallow Category = "Swallow"
	CategoryGrills  Category = "Grills"
	CategoryDrinks  Category = "Drinks"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySoups,
	CategoryRice,
	CategorySwallow,
	CategoryGrills,
	CategoryDrinks,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is a dish or drink offered by the restaurant. Items are defined once
// and never mutated.
type Item struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    Category `yaml:"category"`
	Description string   `yaml:"description"`
	// Price is the display price, e.g. "₦3,500".
	Price      string `yaml:"price"`
	Image      string `yaml:"image"`
	Popular    bool   `yaml:"popular"`
	Spicy      bool   `yaml:"spicy"`
	Vegetarian bool   `yaml:"vegetarian"`
}

// Repository defines read operations for the menu.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	ListByCategory(ctx context.Context, category Category) ([]Item, error)
	GetByID(ctx context.Context, id int) (*Item, error)
}
