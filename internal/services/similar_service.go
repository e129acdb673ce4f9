package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/utils"
)

const (
	defaultSimilarCount = 10
	maxSimilarCount     = 100
)

// groupPriority orders the trending filler tier: clearance first, then
// promo, then new arrivals, then untagged.
const groupPriority = "CASE item_infos.special_group WHEN 'liq' THEN 0 WHEN 'prm' THEN 1 WHEN 'new' THEN 2 ELSE 3 END"

// SimilarItem is the short projection returned to item pages.
type SimilarItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PhotoID      uuid.UUID `json:"photo_id"`
	Price        float64   `json:"price"`
	Promo        *float64  `json:"promo"`
	SpecialGroup *string   `json:"special_group"`
	SizeValue    float64   `json:"size_value"`
	SizeUnit     string    `json:"size_unit"`
	Color        string    `json:"color"`
}

// SimilarQuery seeds the fallback cascade with the attributes of the item
// being viewed.
type SimilarQuery struct {
	CategoryID   uuid.UUID
	SpecialGroup *string
	SizeUnit     string
	Count        int
	Lang         string // am|ru
}

// SimilarService finds related items by successively relaxing the match
// criteria.
type SimilarService struct {
	db *gorm.DB
}

// NewSimilarService constructs SimilarService.
func NewSimilarService(db *gorm.DB) *SimilarService {
	return &SimilarService{db: db}
}

// base joins the variant rows onto items. The join yields one row per info
// row, so items with several variants repeat; variant_rank numbers each
// item's rows by group priority, and tiers keep only rank 1 so their LIMIT
// counts distinct items, not variant rows. lang must already be normalized
// to am|ru before it reaches the SELECT.
func (s *SimilarService) base(lang string) *gorm.DB {
	return s.db.Table("items").
		Select(fmt.Sprintf(`items.id AS id,
			items.name_%[1]s AS name,
			item_infos.photo_id AS photo_id,
			item_infos.price AS price,
			item_infos.promo AS promo,
			item_infos.special_group AS special_group,
			item_sizes.size_value AS size_value,
			item_sizes.size_unit AS size_unit,
			item_colors.color_%[1]s AS color,
			%[2]s AS group_rank,
			ROW_NUMBER() OVER (PARTITION BY items.id ORDER BY %[2]s) AS variant_rank`,
			lang, groupPriority)).
		Joins("JOIN item_infos ON item_infos.item_id = items.id").
		Joins("JOIN item_sizes ON item_sizes.id = item_infos.size_id").
		Joins("JOIN item_colors ON item_colors.id = item_infos.color_id")
}

// GetSimilarItems fills up to Count projections tier by tier: same category,
// same special group (when the seed has one), same size unit, then a generic
// special-group priority filler. Each tier selects one representative row
// per item, its LIMIT is the number of remaining slots, duplicates from
// overlapping tiers are collapsed after every append, and a failing tier
// query fails the whole call. The result may run short when the catalog is
// small; the seed item itself is not excluded.
func (s *SimilarService) GetSimilarItems(q SimilarQuery) ([]SimilarItem, error) {
	count := q.Count
	if count <= 0 {
		count = defaultSimilarCount
	}
	if count > maxSimilarCount {
		count = maxSimilarCount
	}
	lang := "am"
	if q.Lang == "ru" {
		lang = "ru"
	}

	result := make([]SimilarItem, 0, count)

	appendTier := func(tier *gorm.DB, order string) error {
		query := s.db.Table("(?) AS ranked", tier).Where("ranked.variant_rank = 1")
		if order != "" {
			query = query.Order(order)
		}
		var rows []SimilarItem
		if err := query.Limit(count - len(result)).Scan(&rows).Error; err != nil {
			return err
		}
		result = utils.RemoveDuplicates(append(result, rows...), func(it SimilarItem) uuid.UUID {
			return it.ID
		})
		return nil
	}

	if err := appendTier(s.base(lang).Where("items.category_id = ?", q.CategoryID), ""); err != nil {
		return nil, fmt.Errorf("similar items by category: %w", err)
	}

	if len(result) < count && q.SpecialGroup != nil {
		if err := appendTier(s.base(lang).Where("item_infos.special_group = ?", *q.SpecialGroup), ""); err != nil {
			return nil, fmt.Errorf("similar items by special group: %w", err)
		}
	}

	if len(result) < count && q.SizeUnit != "" {
		if err := appendTier(s.base(lang).Where("item_sizes.size_unit = ?", q.SizeUnit), ""); err != nil {
			return nil, fmt.Errorf("similar items by size unit: %w", err)
		}
	}

	if len(result) < count {
		if err := appendTier(s.base(lang), "ranked.group_rank"); err != nil {
			return nil, fmt.Errorf("similar items by group priority: %w", err)
		}
	}

	return result, nil
}
