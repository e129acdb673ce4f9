package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/models"
)

// ItemService reconciles stored items with desired shapes: given an item and
// its variant list it computes and executes the inserts, updates and deletes
// needed to reach that shape inside one transaction.
type ItemService struct {
	db *gorm.DB
}

// NewItemService constructs ItemService.
func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// ErrNoVariants is returned by AddItem for an empty variant list.
var ErrNoVariants = errors.New("item requires at least one variant")

// ItemInput is the desired top-level shape of an item.
type ItemInput struct {
	CategoryID uuid.UUID
	NameAm     string
	NameRu     string
	Variants   []VariantInput
}

// EditItemInput targets an existing item.
type EditItemInput struct {
	ID uuid.UUID
	ItemInput
}

// VariantInput describes one purchasable configuration. A variant without
// row ids is inserted, one with ids is updated in place, and one with ids
// plus the Delete marker has its four rows removed.
type VariantInput struct {
	PhotoID uuid.UUID
	SizeID  uuid.UUID
	ColorID uuid.UUID
	Delete  bool

	Src           []string
	SizeValue     float64
	SizeUnit      string
	ColorAm       string
	ColorRu       string
	Price         float64
	Promo         *float64
	MinOrderValue float64
	MinOrderUnit  string
	DescriptionAm string
	DescriptionRu string
	SpecialGroup  *string
	Available     int
}

func (v VariantInput) isNew() bool {
	return v.PhotoID == uuid.Nil && v.SizeID == uuid.Nil && v.ColorID == uuid.Nil
}

// txConn serializes statement execution on one transaction. A SQL
// transaction is bound to a single connection, so sibling variant tasks
// overlap their partitioning and row assembly but take turns on the wire.
type txConn struct {
	mu sync.Mutex
	tx *gorm.DB
}

func (c *txConn) run(fn func(tx *gorm.DB) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.tx)
}

// AddItem inserts the item row and all variant rows in one transaction and
// returns the generated item id. The item insert completes before any
// variant task starts; variant tasks then run as a join-all group, and the
// transaction commits or rolls back only after every task has finished, so
// a failing variant never races a sibling that is still in flight.
func (s *ItemService) AddItem(input ItemInput) (uuid.UUID, error) {
	if len(input.Variants) == 0 {
		return uuid.Nil, ErrNoVariants
	}

	item := models.Item{
		CategoryID: input.CategoryID,
		NameAm:     input.NameAm,
		NameRu:     input.NameRu,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}

		conn := &txConn{tx: tx}
		var g errgroup.Group
		for _, variant := range input.Variants {
			variant := variant
			g.Go(func() error {
				return insertVariant(conn, item.ID, variant)
			})
		}
		return g.Wait()
	})
	if err != nil {
		return uuid.Nil, err
	}
	return item.ID, nil
}

// EditItem updates the item row unconditionally, then reconciles every
// submitted variant: deletion-marked variants lose their four rows, variants
// with ids are updated in place, variants without ids are inserted. The
// whole edit is all-or-nothing across every variant.
func (s *ItemService) EditItem(input EditItemInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, "id = ?", input.ID).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"category_id": input.CategoryID,
			"name_am":     input.NameAm,
			"name_ru":     input.NameRu,
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating item: %w", err)
		}

		conn := &txConn{tx: tx}
		var g errgroup.Group
		for _, variant := range input.Variants {
			variant := variant
			g.Go(func() error {
				switch {
				case variant.Delete:
					return deleteVariant(conn, input.ID, variant)
				case variant.isNew():
					return insertVariant(conn, input.ID, variant)
				default:
					return updateVariant(conn, input.ID, variant)
				}
			})
		}
		return g.Wait()
	})
}

// DeleteItem removes an item and all rows it owns. Deleting an id that does
// not exist is a successful no-op.
func (s *ItemService) DeleteItem(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.ItemInfo{},
			&models.ItemPhoto{},
			&models.ItemSize{},
			&models.ItemColor{},
		} {
			if err := tx.Where("item_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("deleting item rows: %w", err)
			}
		}
		if err := tx.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return nil
	})
}

func insertVariant(conn *txConn, itemID uuid.UUID, v VariantInput) error {
	photo := models.ItemPhoto{ItemID: itemID, Src: models.StringList(v.Src)}
	size := models.ItemSize{ItemID: itemID, SizeValue: v.SizeValue, SizeUnit: v.SizeUnit}
	color := models.ItemColor{ItemID: itemID, ColorAm: v.ColorAm, ColorRu: v.ColorRu}

	inserts := []struct {
		what string
		row  any
	}{
		{"item photo", &photo},
		{"item size", &size},
		{"item color", &color},
	}
	for _, ins := range inserts {
		if err := conn.run(func(tx *gorm.DB) error {
			return tx.Create(ins.row).Error
		}); err != nil {
			return fmt.Errorf("inserting %s: %w", ins.what, err)
		}
	}

	info := models.ItemInfo{
		ItemID:        itemID,
		PhotoID:       photo.ID,
		SizeID:        size.ID,
		ColorID:       color.ID,
		Price:         v.Price,
		Promo:         v.Promo,
		MinOrderValue: v.MinOrderValue,
		MinOrderUnit:  v.MinOrderUnit,
		DescriptionAm: v.DescriptionAm,
		DescriptionRu: v.DescriptionRu,
		SpecialGroup:  v.SpecialGroup,
		Available:     v.Available,
	}
	if err := conn.run(func(tx *gorm.DB) error {
		return tx.Create(&info).Error
	}); err != nil {
		return fmt.Errorf("inserting item info: %w", err)
	}
	return nil
}

// updateVariant rewrites the four rows in place. Every statement is scoped
// by item_id as well as the caller-supplied row id, so an id belonging to a
// different item matches nothing instead of mutating foreign data. The
// photo src list is replaced wholesale.
func updateVariant(conn *txConn, itemID uuid.UUID, v VariantInput) error {
	if err := conn.run(func(tx *gorm.DB) error {
		return tx.Model(&models.ItemPhoto{}).
			Where("id = ? AND item_id = ?", v.PhotoID, itemID).
			Update("src", models.StringList(v.Src)).Error
	}); err != nil {
		return fmt.Errorf("updating item photo: %w", err)
	}

	if err := conn.run(func(tx *gorm.DB) error {
		return tx.Model(&models.ItemSize{}).
			Where("id = ? AND item_id = ?", v.SizeID, itemID).
			Updates(map[string]any{
				"size_value": v.SizeValue,
				"size_unit":  v.SizeUnit,
			}).Error
	}); err != nil {
		return fmt.Errorf("updating item size: %w", err)
	}

	if err := conn.run(func(tx *gorm.DB) error {
		return tx.Model(&models.ItemColor{}).
			Where("id = ? AND item_id = ?", v.ColorID, itemID).
			Updates(map[string]any{
				"color_am": v.ColorAm,
				"color_ru": v.ColorRu,
			}).Error
	}); err != nil {
		return fmt.Errorf("updating item color: %w", err)
	}

	if err := conn.run(func(tx *gorm.DB) error {
		return tx.Model(&models.ItemInfo{}).
			Where("photo_id = ? AND size_id = ? AND color_id = ? AND item_id = ?",
				v.PhotoID, v.SizeID, v.ColorID, itemID).
			Updates(map[string]any{
				"price":           v.Price,
				"promo":           v.Promo,
				"min_order_value": v.MinOrderValue,
				"min_order_unit":  v.MinOrderUnit,
				"description_am":  v.DescriptionAm,
				"description_ru":  v.DescriptionRu,
				"special_group":   v.SpecialGroup,
				"available":       v.Available,
			}).Error
	}); err != nil {
		return fmt.Errorf("updating item info: %w", err)
	}
	return nil
}

// deleteVariant removes the info row first, then the three rows it
// references. Like updateVariant, every statement is scoped by item_id.
func deleteVariant(conn *txConn, itemID uuid.UUID, v VariantInput) error {
	steps := []struct {
		what string
		fn   func(tx *gorm.DB) error
	}{
		{"item info", func(tx *gorm.DB) error {
			return tx.Where("photo_id = ? AND item_id = ?", v.PhotoID, itemID).
				Delete(&models.ItemInfo{}).Error
		}},
		{"item photo", func(tx *gorm.DB) error {
			return tx.Where("id = ? AND item_id = ?", v.PhotoID, itemID).
				Delete(&models.ItemPhoto{}).Error
		}},
		{"item size", func(tx *gorm.DB) error {
			return tx.Where("id = ? AND item_id = ?", v.SizeID, itemID).
				Delete(&models.ItemSize{}).Error
		}},
		{"item color", func(tx *gorm.DB) error {
			return tx.Where("id = ? AND item_id = ?", v.ColorID, itemID).
				Delete(&models.ItemColor{}).Error
		}},
	}
	for _, step := range steps {
		if err := conn.run(step.fn); err != nil {
			return fmt.Errorf("deleting %s: %w", step.what, err)
		}
	}
	return nil
}

// AdminVariant is one stored variant assembled from its four rows, with all
// row ids visible for the admin editor.
type AdminVariant struct {
	InfoID        uuid.UUID  `json:"info_id"`
	PhotoID       uuid.UUID  `json:"photo_id"`
	SizeID        uuid.UUID  `json:"size_id"`
	ColorID       uuid.UUID  `json:"color_id"`
	Src           []string   `json:"src"`
	SizeValue     float64    `json:"size_value"`
	SizeUnit      string     `json:"size_unit"`
	ColorAm       string     `json:"color_am"`
	ColorRu       string     `json:"color_ru"`
	Price         float64    `json:"price"`
	Promo         *float64   `json:"promo"`
	MinOrderValue float64    `json:"min_order_value"`
	MinOrderUnit  string     `json:"min_order_unit"`
	DescriptionAm string     `json:"description_am"`
	DescriptionRu string     `json:"description_ru"`
	SpecialGroup  *string    `json:"special_group"`
	Available     int        `json:"available"`
}

// GetItemAdmin loads an item and assembles its variants. Info rows whose
// referenced rows are gone are skipped rather than reported as an error.
func (s *ItemService) GetItemAdmin(id uuid.UUID) (*models.Item, []AdminVariant, error) {
	var item models.Item
	if err := s.db.
		Preload("Photos").
		Preload("Sizes").
		Preload("Colors").
		Preload("Infos").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}

	photos := make(map[uuid.UUID]models.ItemPhoto, len(item.Photos))
	for _, p := range item.Photos {
		photos[p.ID] = p
	}
	sizes := make(map[uuid.UUID]models.ItemSize, len(item.Sizes))
	for _, sz := range item.Sizes {
		sizes[sz.ID] = sz
	}
	colors := make(map[uuid.UUID]models.ItemColor, len(item.Colors))
	for _, cl := range item.Colors {
		colors[cl.ID] = cl
	}

	variants := make([]AdminVariant, 0, len(item.Infos))
	for _, info := range item.Infos {
		photo, okP := photos[info.PhotoID]
		size, okS := sizes[info.SizeID]
		color, okC := colors[info.ColorID]
		if !okP || !okS || !okC {
			continue
		}
		variants = append(variants, AdminVariant{
			InfoID:        info.ID,
			PhotoID:       info.PhotoID,
			SizeID:        info.SizeID,
			ColorID:       info.ColorID,
			Src:           photo.Src,
			SizeValue:     size.SizeValue,
			SizeUnit:      size.SizeUnit,
			ColorAm:       color.ColorAm,
			ColorRu:       color.ColorRu,
			Price:         info.Price,
			Promo:         info.Promo,
			MinOrderValue: info.MinOrderValue,
			MinOrderUnit:  info.MinOrderUnit,
			DescriptionAm: info.DescriptionAm,
			DescriptionRu: info.DescriptionRu,
			SpecialGroup:  info.SpecialGroup,
			Available:     info.Available,
		})
	}
	return &item, variants, nil
}
