package catalog

import (
	"strings"

	"github.com/hanahehe/restore/models"
)

// CategoryAll matches every category
const CategoryAll = "All"

func matchCategory(want, got string) bool {
	return want == "" || want == CategoryAll || want == got
}

// FilterProducts searches name and category case-insensitively and keeps
// catalog order.
func (s *Store) FilterProducts(query, category string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Product{}
	s.View(func(c *Collections) {
		for _, p := range c.Products {
			hit := strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Category), q)
			if hit && matchCategory(category, p.Category) {
				out = append(out, p)
			}
		}
	})
	return out
}

// FilterMenu returns menu items in the category, unavailable ones included
func (s *Store) FilterMenu(category string) []models.MenuItem {
	out := []models.MenuItem{}
	s.View(func(c *Collections) {
		for _, m := range c.Menu {
			if matchCategory(category, m.Category) {
				out = append(out, m)
			}
		}
	})
	return out
}

// MenuItem returns one menu item by id
func (s *Store) MenuItem(id string) (models.MenuItem, bool) {
	var (
		item  models.MenuItem
		found bool
	)
	s.View(func(c *Collections) {
		for _, m := range c.Menu {
			if m.ID == id {
				item, found = m, true
				return
			}
		}
	})
	return item, found
}
