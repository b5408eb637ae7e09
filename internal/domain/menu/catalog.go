package menu

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// Default is the restaurant's built-in menu.
var Default = []Item{
	{ID: 1, Name: "Egusi Soup", Category: CategorySoups, Description: "Rich melon seed soup with assorted meat", Price: "₦3,500", Image: "/images/egusi.jpg", Popular: true},
	{ID: 2, Name: "Jollof Rice", Category: CategoryRice, Description: "Smoky party jollof with chicken", Price: "₦2,500", Image: "/images/jollof.jpg", Popular: true},
	{ID: 3, Name: "Pepper Soup", Category: CategorySoups, Description: "Spicy goat meat pepper soup", Price: "₦4,000", Image: "/images/pepper-soup.jpg", Spicy: true},
	{ID: 4, Name: "Pounded Yam", Category: CategorySwallow, Description: "Smooth pounded yam", Price: "₦1,500", Image: "/images/pounded-yam.jpg", Vegetarian: true},
	{ID: 5, Name: "Suya", Category: CategoryGrills, Description: "Spicy grilled beef skewers", Price: "₦3,000", Image: "/images/suya.jpg", Popular: true, Spicy: true},
	{ID: 6, Name: "Fried Rice", Category: CategoryRice, Description: "Mixed vegetable fried rice", Price: "₦2,500", Image: "/images/fried-rice.jpg"},
	{ID: 7, Name: "Efo Riro", Category: CategorySoups, Description: "Spinach soup with assorted meat", Price: "₦3,500", Image: "/images/efo-riro.jpg"},
	{ID: 8, Name: "Asun", Category: CategoryGrills, Description: "Spicy grilled goat meat", Price: "₦4,500", Image: "/images/asun.jpg", Spicy: true},
	{ID: 9, Name: "Amala", Category: CategorySwallow, Description: "Yam flour swallow", Price: "₦1,200", Image: "/images/amala.jpg", Vegetarian: true},
	{ID: 10, Name: "Chapman", Category: CategoryDrinks, Description: "Refreshing fruit cocktail", Price: "₦1,000", Image: "/images/chapman.jpg", Vegetarian: true},
	{ID: 11, Name: "Ofada Rice", Category: CategoryRice, Description: "Local rice with special sauce", Price: "₦3,000", Image: "/images/ofada.jpg"},
	{ID: 12, Name: "Zobo", Category: CategoryDrinks, Description: "Hibiscus drink with ginger", Price: "₦800", Image: "/images/zobo.jpg", Vegetarian: true},
}

var _ Repository = (*StaticRepository)(nil)

// StaticRepository serves a fixed, in-memory menu.
type StaticRepository struct {
	items []Item
	byID  map[int]int
}

// NewStaticRepository returns a repository over items. Item IDs must be
// unique and categories known.
func NewStaticRepository(items []Item) (*StaticRepository, error) {
	r := &StaticRepository{
		items: make([]Item, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	copy(r.items, items)
	for i, it := range r.items {
		if _, dup := r.byID[it.ID]; dup {
			return nil, errors.Errorf("duplicate menu item id %d", it.ID)
		}
		if !it.Category.Valid() {
			return nil, errors.Errorf("menu item %d: unknown category %q", it.ID, it.Category)
		}
		r.byID[it.ID] = i
	}
	return r, nil
}

// LoadFile reads a YAML list of menu items from path.
func LoadFile(path string) (*StaticRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read menu file")
	}
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "parse menu file")
	}
	return NewStaticRepository(items)
}

// List returns every item in menu order.
func (r *StaticRepository) List(_ context.Context) ([]Item, error) {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// ListByCategory returns the items of one category in menu order.
func (r *StaticRepository) ListByCategory(_ context.Context, category Category) ([]Item, error) {
	var out []Item
	for _, it := range r.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

// GetByID returns the item with the given id or ErrNotFound.
func (r *StaticRepository) GetByID(_ context.Context, id int) (*Item, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	it := r.items[i]
	return &it, nil
}
