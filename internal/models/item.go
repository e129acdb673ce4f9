package models

import "github.com/google/uuid"

// Item is a catalog entry. A purchasable configuration ("variant") is not a
// single row: ItemInfo joins one photo, one size and one color row and
// carries the commercial attributes.
type Item struct {
	BaseModel
	CategoryID uuid.UUID   `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category   `json:"category,omitempty"`
	NameAm     string      `json:"name_am"`
	NameRu     string      `json:"name_ru"`
	Photos     []ItemPhoto `json:"photos,omitempty"`
	Sizes      []ItemSize  `json:"sizes,omitempty"`
	Colors     []ItemColor `json:"colors,omitempty"`
	Infos      []ItemInfo  `json:"infos,omitempty"`
}

// ItemPhoto holds the ordered encoded image sources of one variant.
type ItemPhoto struct {
	BaseModel
	ItemID uuid.UUID  `gorm:"type:uuid;index" json:"item_id"`
	Src    StringList `gorm:"type:text" json:"src"`
}

type ItemSize struct {
	BaseModel
	ItemID    uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	SizeValue float64   `json:"size_value"`
	SizeUnit  string    `json:"size_unit"` // mm|cm|m
}

type ItemColor struct {
	BaseModel
	ItemID  uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	ColorAm string    `json:"color_am"`
	ColorRu string    `json:"color_ru"`
}

// ItemInfo references the photo, size and color rows of the same item; the
// reconciliation engine keeps the four rows consistent as one unit.
type ItemInfo struct {
	BaseModel
	ItemID        uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	PhotoID       uuid.UUID `gorm:"type:uuid;index" json:"photo_id"`
	SizeID        uuid.UUID `gorm:"type:uuid;index" json:"size_id"`
	ColorID       uuid.UUID `gorm:"type:uuid;index" json:"color_id"`
	Price         float64   `json:"price"`
	Promo         *float64  `json:"promo"`
	MinOrderValue float64   `json:"min_order_value"`
	MinOrderUnit  string    `json:"min_order_unit"` // box|cm|pcs|roll
	DescriptionAm string    `json:"description_am"`
	DescriptionRu string    `json:"description_ru"`
	SpecialGroup  *string   `json:"special_group"` // new|prm|liq
	Available     int       `json:"available"`
}
