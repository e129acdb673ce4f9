package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/models"
	"github.com/example/zipit/internal/services"
	"github.com/example/zipit/internal/utils"
)

// OrderHandler manages order endpoints. Orders are placed anonymously;
// listing and status changes are admin-only.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram}
}

type orderLineRequest struct {
	ItemID   string `json:"item_id"`
	InfoID   string `json:"info_id"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Comment       string             `json:"comment"`
	Items         []orderLineRequest `json:"items"`
}

// CreateOrder places a new order. Prices are taken from the referenced info
// rows (promo price when set), never from the client.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer name not provided")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer phone not provided")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order items not provided")
	}

	order := models.Order{
		OrderNumber:   generateOrderNumber(),
		Status:        models.OrderStatusPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Comment:       req.Comment,
	}

	lang := c.Query("lang", "am")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "order item quantity must be greater than 0")
			}
			infoID, err := uuid.Parse(line.InfoID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "order item info id must be a valid id")
			}

			var info models.ItemInfo
			if err := tx.First(&info, "id = ?", infoID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "ordered item no longer exists")
				}
				return err
			}

			var item models.Item
			if err := tx.First(&item, "id = ?", info.ItemID).Error; err != nil {
				return err
			}
			var size models.ItemSize
			if err := tx.First(&size, "id = ?", info.SizeID).Error; err != nil {
				return err
			}
			var color models.ItemColor
			if err := tx.First(&color, "id = ?", info.ColorID).Error; err != nil {
				return err
			}

			unitPrice := info.Price
			if info.Promo != nil {
				unitPrice = *info.Promo
			}

			name := item.NameAm
			colorLabel := color.ColorAm
			if lang == "ru" {
				name = item.NameRu
				colorLabel = color.ColorRu
			}

			order.Items = append(order.Items, models.OrderItem{
				ItemID:    &item.ID,
				InfoID:    &info.ID,
				ItemName:  name,
				SizeLabel: fmt.Sprintf("%g %s", size.SizeValue, size.SizeUnit),
				Color:     colorLabel,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				LineTotal: unitPrice * float64(line.Quantity),
			})
			order.TotalAmount += unitPrice * float64(line.Quantity)
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return err
	}

	notification := services.OrderNotification{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Comment:       order.Comment,
		TotalAmount:   order.TotalAmount,
	}
	for _, item := range order.Items {
		notification.Items = append(notification.Items, services.OrderItemNotification{
			Name:      item.ItemName,
			SizeLabel: item.SizeLabel,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("order notification failed: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns paginated orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder loads one order with its lines.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order through its lifecycle.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusDone, models.OrderStatusCancelled:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// generateOrderNumber produces a day-scoped order number. order_number has
// a unique index, so the suffix space must stay far above the daily order
// volume to keep collisions out of the insert path.
func generateOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ZP-%s-%09d", time.Now().Format("20060102"), suffix)
}
