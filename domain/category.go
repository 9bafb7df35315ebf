package domain

import "strings"

// Routine categories as stored in products.category.
const (
	CategoryCleanser    = "Detergente"
	CategoryToner       = "Tonico"
	CategorySerum       = "Siero"
	CategoryEyeContour  = "Contorno Occhi"
	CategoryFaceCream   = "Crema Viso"
	CategorySunscreen   = "Protezione Solare"
	CategoryMask        = "Maschera"
	CategoryBody        = "Olio/Burro/Corpo"
	ProductTypeRoutine  = "routine_completa"
	unknownRoutineIndex = 1 << 30
)

// RoutineOrder is the canonical application order of a skincare routine.
var RoutineOrder = []string{
	CategoryCleanser,
	CategoryToner,
	CategorySerum,
	CategoryEyeContour,
	CategoryFaceCream,
	CategorySunscreen,
	CategoryMask,
	CategoryBody,
}

var routineIndex = func() map[string]int {
	m := make(map[string]int, len(RoutineOrder))
	for i, c := range RoutineOrder {
		m[c] = i
	}
	return m
}()

// productTypeCategories maps quiz product-type answers to catalog categories.
var productTypeCategories = map[string]string{
	"detergente":        CategoryCleanser,
	"tonico":            CategoryToner,
	"siero":             CategorySerum,
	"contorno_occhi":    CategoryEyeContour,
	"crema_viso":        CategoryFaceCream,
	"protezione_solare": CategorySunscreen,
	"maschera":          CategoryMask,
	"corpo":             CategoryBody,
}

// RoutineIndex returns the position of a category in RoutineOrder.
// Unknown categories get an index after every known one.
func RoutineIndex(category string) int {
	if i, ok := routineIndex[category]; ok {
		return i
	}
	return unknownRoutineIndex
}

// IsRoutineCategory reports whether category is one of RoutineOrder.
func IsRoutineCategory(category string) bool {
	_, ok := routineIndex[category]
	return ok
}

// CategoryForProductType resolves a quiz product type to a catalog category.
// Unknown keys are compared to category names ignoring case, with
// underscores read as spaces. The bool is false when nothing matches.
func CategoryForProductType(productType string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(productType))
	if c, ok := productTypeCategories[key]; ok {
		return c, true
	}

	spaced := strings.ReplaceAll(key, "_", " ")
	for _, c := range RoutineOrder {
		if strings.ToLower(c) == spaced {
			return c, true
		}
	}

	return "", false
}
