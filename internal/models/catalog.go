package models

type Category struct {
	BaseModel
	LabelAm string `json:"label_am"`
	LabelRu string `json:"label_ru"`
	Items   []Item `json:"items,omitempty"`
}
