package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type seedItem struct {
	nameAm   string
	nameRu   string
	group    string // "" means untagged
	sizeUnit string
	variants int
}

func seedCatalog(t *testing.T, db *gorm.DB, categoryID uuid.UUID, seeds []seedItem) map[string]uuid.UUID {
	t.Helper()
	svc := NewItemService(db)
	ids := make(map[string]uuid.UUID, len(seeds))
	for _, seed := range seeds {
		if seed.variants == 0 {
			seed.variants = 1
		}
		variants := make([]VariantInput, seed.variants)
		for i := range variants {
			variants[i] = testVariant()
			if seed.sizeUnit != "" {
				variants[i].SizeUnit = seed.sizeUnit
			}
			if seed.group != "" {
				group := seed.group
				variants[i].SpecialGroup = &group
			}
		}
		id, err := svc.AddItem(ItemInput{
			CategoryID: categoryID,
			NameAm:     seed.nameAm,
			NameRu:     seed.nameRu,
			Variants:   variants,
		})
		require.NoError(t, err)
		ids[seed.nameAm] = id
	}
	return ids
}

func resultIDs(items []SimilarItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestGetSimilarItems(t *testing.T) {
	t.Run("full category fills from the first tier with no duplicates", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		other := createCategory(t, db, "Կոճակ", "Пуговица")
		seedCatalog(t, db, cat.ID, []seedItem{
			{nameAm: "ա1", nameRu: "р1"},
			{nameAm: "ա2", nameRu: "р2"},
			{nameAm: "ա3", nameRu: "р3"},
		})
		seedCatalog(t, db, other.ID, []seedItem{{nameAm: "օտար", nameRu: "чужой"}})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 2, Lang: "am"})
		require.NoError(t, err)

		require.Len(t, items, 2)
		seen := map[uuid.UUID]bool{}
		for _, item := range items {
			assert.False(t, seen[item.ID], "no duplicate ids")
			seen[item.ID] = true
			assert.NotEqual(t, "օտար", item.Name, "tier 1 must stay inside the category")
		}
	})

	t.Run("join multiplicity is collapsed per item", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		ids := seedCatalog(t, db, cat.ID, []seedItem{
			{nameAm: "բազմատարբերակ", nameRu: "многовариантный", variants: 3},
			{nameAm: "մեկ", nameRu: "один"},
		})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 10})
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.ElementsMatch(t,
			[]uuid.UUID{ids["բազմատարբերակ"], ids["մեկ"]},
			resultIDs(items))
	})

	t.Run("multi-variant items consume one slot per tier", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		ids := seedCatalog(t, db, cat.ID, []seedItem{
			{nameAm: "եռակի", nameRu: "тройной", variants: 3},
			{nameAm: "երկրորդ", nameRu: "второй"},
			{nameAm: "երրորդ", nameRu: "третий"},
		})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{
			CategoryID: cat.ID,
			SizeUnit:   "cm",
			Count:      3,
		})
		require.NoError(t, err)

		require.Len(t, items, 3, "three items in the category must fill count=3")
		assert.ElementsMatch(t,
			[]uuid.UUID{ids["եռակի"], ids["երկրորդ"], ids["երրորդ"]},
			resultIDs(items))
	})

	t.Run("special group tier fills remaining slots", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		other := createCategory(t, db, "Կոճակ", "Пуговица")
		ids := seedCatalog(t, db, cat.ID, []seedItem{{nameAm: "սեփական", nameRu: "свой"}})
		promoted := seedCatalog(t, db, other.ID, []seedItem{
			{nameAm: "ակցիա1", nameRu: "акция1", group: "prm"},
			{nameAm: "ակցիա2", nameRu: "акция2", group: "prm"},
			{nameAm: "սովորական", nameRu: "обычный"},
		})

		group := "prm"
		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{
			CategoryID:   cat.ID,
			SpecialGroup: &group,
			Count:        3,
		})
		require.NoError(t, err)

		require.Len(t, items, 3)
		assert.Equal(t, ids["սեփական"], items[0].ID, "category match comes first")
		assert.ElementsMatch(t,
			[]uuid.UUID{promoted["ակցիա1"], promoted["ակցիա2"]},
			resultIDs(items[1:]))
	})

	t.Run("size unit tier runs before the generic filler", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		ids := seedCatalog(t, db, cat.ID, []seedItem{
			{nameAm: "միլիմետր", nameRu: "миллиметр", sizeUnit: "mm"},
			{nameAm: "զեղչված", nameRu: "уценка", sizeUnit: "cm", group: "liq"},
		})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{
			CategoryID: uuid.New(), // empty tier 1
			SizeUnit:   "mm",
			Count:      2,
		})
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, ids["միլիմետր"], items[0].ID)
		assert.Equal(t, ids["զեղչված"], items[1].ID)
	})

	t.Run("exhausted tiers fall back to group priority order", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		// Scrambled insertion order; all size units differ from the query.
		ids := seedCatalog(t, db, cat.ID, []seedItem{
			{nameAm: "նոր", nameRu: "новый", group: "new", sizeUnit: "cm"},
			{nameAm: "անպիտակ", nameRu: "без метки", sizeUnit: "cm"},
			{nameAm: "զեղչ", nameRu: "ликвидация", group: "liq", sizeUnit: "cm"},
			{nameAm: "ակցիա", nameRu: "промо", group: "prm", sizeUnit: "cm"},
		})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{
			CategoryID: uuid.New(), // no tier 1 matches
			SizeUnit:   "mm",       // no tier 3 matches
			Count:      4,
		})
		require.NoError(t, err)

		require.Len(t, items, 4)
		assert.Equal(t, []uuid.UUID{
			ids["զեղչ"],
			ids["ակցիա"],
			ids["նոր"],
			ids["անպիտակ"],
		}, resultIDs(items))
	})

	t.Run("result runs short on a small catalog", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		seedCatalog(t, db, cat.ID, []seedItem{{nameAm: "միակ", nameRu: "единственный"}})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 10})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("localizes name and color", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		seedCatalog(t, db, cat.ID, []seedItem{{nameAm: "շղթա", nameRu: "молния"}})

		svc := NewSimilarService(db)

		am, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 1, Lang: "am"})
		require.NoError(t, err)
		require.Len(t, am, 1)
		assert.Equal(t, "շղթա", am[0].Name)
		assert.Equal(t, "սև", am[0].Color)

		ru, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 1, Lang: "ru"})
		require.NoError(t, err)
		require.Len(t, ru, 1)
		assert.Equal(t, "молния", ru[0].Name)
		assert.Equal(t, "чёрный", ru[0].Color)
	})

	t.Run("projection carries variant attributes", func(t *testing.T) {
		db := newTestDB(t)
		cat := createCategory(t, db, "Կայծակաճարմանդ", "Молния")
		seedCatalog(t, db, cat.ID, []seedItem{{nameAm: "շղթա", nameRu: "молния", group: "new", sizeUnit: "mm"}})

		svc := NewSimilarService(db)
		items, err := svc.GetSimilarItems(SimilarQuery{CategoryID: cat.ID, Count: 1})
		require.NoError(t, err)
		require.Len(t, items, 1)

		item := items[0]
		assert.NotEqual(t, uuid.Nil, item.PhotoID)
		assert.Equal(t, 100.0, item.Price)
		assert.Equal(t, 2.0, item.SizeValue)
		assert.Equal(t, "mm", item.SizeUnit)
		require.NotNil(t, item.SpecialGroup)
		assert.Equal(t, "new", *item.SpecialGroup)
	})
}
