package models

import "github.com/google/uuid"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDone      = "done"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	BaseModel
	OrderNumber   string      `gorm:"uniqueIndex" json:"order_number"`
	Status        string      `json:"status"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Comment       string      `json:"comment"`
	TotalAmount   float64     `json:"total_amount"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the ordered variant, so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ItemID    *uuid.UUID `gorm:"type:uuid" json:"item_id"`
	InfoID    *uuid.UUID `gorm:"type:uuid" json:"info_id"`
	ItemName  string     `json:"item_name"`
	SizeLabel string     `json:"size_label"`
	Color     string     `json:"color"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
	LineTotal float64    `json:"line_total"`
}
