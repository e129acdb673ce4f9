package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/models"
)

// BackupHandler produces catalog snapshots for off-site dumps.
type BackupHandler struct {
	db *gorm.DB
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(db *gorm.DB) *BackupHandler {
	return &BackupHandler{db: db}
}

// Backup returns the full catalog (categories plus item graphs) as one JSON
// document.
func (h *BackupHandler) Backup(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Order("created_at").Find(&categories).Error; err != nil {
		return err
	}

	var items []models.Item
	if err := h.db.
		Preload("Photos").
		Preload("Sizes").
		Preload("Colors").
		Preload("Infos").
		Order("created_at").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"exported_at": time.Now().UTC(),
		"categories":  categories,
		"items":       items,
	})
}
