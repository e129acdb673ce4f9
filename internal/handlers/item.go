package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/models"
	"github.com/example/zipit/internal/services"
	"github.com/example/zipit/internal/utils"
)

// ItemHandler exposes the item endpoints. Field validation happens here;
// only validated shapes reach the reconciliation engine.
type ItemHandler struct {
	db      *gorm.DB
	items   *services.ItemService
	similar *services.SimilarService
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{
		db:      db,
		items:   services.NewItemService(db),
		similar: services.NewSimilarService(db),
	}
}

// Validated fields are declared as `any` so the validators see the decoded
// JSON value as submitted: a string price must fail with a type error, not
// at unmarshal time.
type itemRequest struct {
	CategoryID any              `json:"category_id"`
	NameAm     any              `json:"name_am"`
	NameRu     any              `json:"name_ru"`
	Variants   []variantRequest `json:"variants"`
}

type variantRequest struct {
	PhotoID string `json:"photo_id"`
	SizeID  string `json:"size_id"`
	ColorID string `json:"color_id"`
	Delete  bool   `json:"delete"`

	Src           any `json:"src"`
	SizeValue     any `json:"size_value"`
	SizeUnit      any `json:"size_unit"`
	ColorAm       any `json:"color_am"`
	ColorRu       any `json:"color_ru"`
	Price         any `json:"price"`
	Promo         any `json:"promo"`
	MinOrderValue any `json:"min_order_value"`
	MinOrderUnit  any `json:"min_order_unit"`
	DescriptionAm any `json:"description_am"`
	DescriptionRu any `json:"description_ru"`
	SpecialGroup  any `json:"special_group"`
	Available     any `json:"available"`
}

// validateItemRequest runs the field validators in a fixed order and builds
// the engine input. It returns the first failing message, or "".
func validateItemRequest(req itemRequest, requireVariants bool) (services.ItemInput, string) {
	var input services.ItemInput

	if msg := utils.ValidateCategoryID(req.CategoryID); msg != "" {
		return input, msg
	}
	if msg := utils.ValidateName("name_am", req.NameAm); msg != "" {
		return input, msg
	}
	if msg := utils.ValidateName("name_ru", req.NameRu); msg != "" {
		return input, msg
	}
	if requireVariants && len(req.Variants) == 0 {
		return input, "variants not provided"
	}

	input.CategoryID = uuid.MustParse(req.CategoryID.(string))
	input.NameAm = strings.TrimSpace(req.NameAm.(string))
	input.NameRu = strings.TrimSpace(req.NameRu.(string))

	for _, v := range req.Variants {
		variant, msg := validateVariant(v)
		if msg != "" {
			return input, msg
		}
		input.Variants = append(input.Variants, variant)
	}
	return input, ""
}

func validateVariant(v variantRequest) (services.VariantInput, string) {
	var out services.VariantInput

	hasIDs := v.PhotoID != "" || v.SizeID != "" || v.ColorID != ""
	if hasIDs {
		photoID, errP := uuid.Parse(v.PhotoID)
		sizeID, errS := uuid.Parse(v.SizeID)
		colorID, errC := uuid.Parse(v.ColorID)
		if errP != nil || errS != nil || errC != nil {
			return out, "variant ids must be valid ids"
		}
		out.PhotoID, out.SizeID, out.ColorID = photoID, sizeID, colorID
	}

	if v.Delete {
		if !hasIDs {
			return out, "variant ids must be valid ids"
		}
		out.Delete = true
		// Nothing else to validate: the rows are going away.
		return out, ""
	}

	checks := []string{
		utils.ValidatePrice(v.Price),
		utils.ValidatePromo(v.Promo),
		utils.ValidateSizeValue(v.SizeValue),
		utils.ValidateSizeUnit(v.SizeUnit),
		utils.ValidateColor("color_am", v.ColorAm),
		utils.ValidateColor("color_ru", v.ColorRu),
		utils.ValidateMinOrderValue(v.MinOrderValue),
		utils.ValidateMinOrderUnit(v.MinOrderUnit),
		utils.ValidateDescription("description_am", v.DescriptionAm),
		utils.ValidateDescription("description_ru", v.DescriptionRu),
		utils.ValidateSpecialGroup(v.SpecialGroup),
		utils.ValidateAvailable(v.Available),
		utils.ValidateSrc(v.Src),
	}
	for _, msg := range checks {
		if msg != "" {
			return out, msg
		}
	}

	out.Price = v.Price.(float64)
	if v.Promo != nil {
		promo := v.Promo.(float64)
		out.Promo = &promo
	}
	out.SizeValue = v.SizeValue.(float64)
	out.SizeUnit = v.SizeUnit.(string)
	out.ColorAm = strings.TrimSpace(v.ColorAm.(string))
	out.ColorRu = strings.TrimSpace(v.ColorRu.(string))
	out.MinOrderValue = v.MinOrderValue.(float64)
	out.MinOrderUnit = v.MinOrderUnit.(string)
	if v.DescriptionAm != nil {
		out.DescriptionAm = v.DescriptionAm.(string)
	}
	if v.DescriptionRu != nil {
		out.DescriptionRu = v.DescriptionRu.(string)
	}
	if v.SpecialGroup != nil {
		group := v.SpecialGroup.(string)
		out.SpecialGroup = &group
	}
	out.Available = int(v.Available.(float64))
	for _, el := range v.Src.([]any) {
		out.Src = append(out.Src, el.(string))
	}
	return out, ""
}

// ListItems returns paginated items with optional filters.
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Item{})

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name_am) LIKE ? OR LOWER(name_ru) LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.Item
	if err := query.Preload("Photos").Preload("Sizes").Preload("Colors").Preload("Infos").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetItem loads one item with its variant rows.
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.Item
	if err := h.db.Preload("Category").
		Preload("Photos").
		Preload("Sizes").
		Preload("Colors").
		Preload("Infos").
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// GetItemAdmin returns the item with its variants assembled for the editor,
// all row ids included.
func (h *ItemHandler) GetItemAdmin(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	item, variants, err := h.items.GetItemAdmin(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":          item.ID,
			"category_id": item.CategoryID,
			"name_am":     item.NameAm,
			"name_ru":     item.NameRu,
			"variants":    variants,
		},
	})
}

// GetSimilarItems runs the fallback cascade for an item page.
func (h *ItemHandler) GetSimilarItems(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Query("category_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
	}

	q := services.SimilarQuery{
		CategoryID: categoryID,
		SizeUnit:   c.Query("size_unit"),
		Count:      c.QueryInt("count"),
		Lang:       c.Query("lang", "am"),
	}
	if group := c.Query("special_group"); group != "" {
		q.SpecialGroup = &group
	}

	items, err := h.similar.GetSimilarItems(q)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

// CreateItem validates the payload and hands it to the reconciliation
// engine.
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input, msg := validateItemRequest(req, true)
	if msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	id, err := h.items.AddItem(input)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "item adding error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": id})
}

// UpdateItem validates the payload and reconciles the stored item. A call
// with no variants is a pure top-level rename.
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input, msg := validateItemRequest(req, false)
	if msg != "" {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	if err := h.items.EditItem(services.EditItemInput{ID: id, ItemInput: input}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "item editing error")
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteItem removes an item; a missing id is still a success.
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.items.DeleteItem(id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
