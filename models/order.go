package models

import "time"

// OrderStatus represents all possible states of a canteen order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusPickedUp  OrderStatus = "Picked Up"
)

// AllStatuses lists statuses in lifecycle order
var AllStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusPickedUp}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal is true once the order has been collected
func (s OrderStatus) Terminal() bool { return s == StatusPickedUp }

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Pickup    string      `json:"pickup"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderItem is a snapshot of a cart line at checkout time
type OrderItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"` // snapshot price at time of order
}
