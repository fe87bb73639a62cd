package models

// Product is a store item. The store is browse/request only.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Requests int     `json:"requests"`
	Image    string  `json:"img"`
}

// InStock reports whether the product can be bought at the counter
func (p Product) InStock() bool { return p.Stock > 0 }

// MenuItem is a canteen dish
type MenuItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
	Image     string  `json:"img"`
}

// CartLine is transient and never persisted
type CartLine struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
}

// Subtotal is qty × price for the line
func (l CartLine) Subtotal() float64 { return l.Price * float64(l.Qty) }
