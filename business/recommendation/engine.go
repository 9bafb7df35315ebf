package recommendation

import (
	"sort"
	"strings"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

// Policy holds the tunable parts of the rules.
type Policy struct {
	// AntiAgingAge triggers the anti-aging augmenter without a wrinkle concern.
	AntiAgingAge int
	// WidenSteps lists categories that may hold more than one product when
	// an augmenter finds the step already targeted.
	WidenSteps []string
}

func DefaultPolicy() Policy {
	return Policy{AntiAgingAge: DefaultAntiAgingAge}
}

func (p Policy) widens(category string) bool {
	for _, c := range p.WidenSteps {
		if c == category {
			return true
		}
	}
	return false
}

// Result is a recommendation together with how it was reached.
type Result struct {
	Condition  PrimaryCondition
	Augmenters []string
	Products   []domain.Product
}

// Engine is safe for concurrent use: it keeps no state besides its policy.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	if policy.AntiAgingAge <= 0 {
		policy.AntiAgingAge = DefaultAntiAgingAge
	}
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Recommend never fails: an empty or partial catalog yields a shorter result.
func (e *Engine) Recommend(profile domain.UserProfile, catalog []domain.Product) Result {
	active := activeOnly(catalog)

	if !profile.WantsFullRoutine() {
		return Result{
			Condition: ConditionBase,
			Products:  sortByRoutine(dedupe(filterByProductType(active, profile.ProductType))),
		}
	}

	skinType := profile.SkinType
	if !domain.IsSkinType(skinType) {
		skinType = ""
	}
	concerns := NewConcernSet(profile.Concerns)
	condition := ResolveCondition(concerns)

	base := buildBase(condition, active, skinType, profile.Age, concerns)
	routine, applied := augment(base, concerns, profile.Age, augmentInput{
		catalog:  active,
		skinType: skinType,
		policy:   e.policy,
	})

	return Result{
		Condition:  condition,
		Augmenters: applied,
		Products:   sortByRoutine(dedupe(routine.Products())),
	}
}

func (e *Engine) GetRecommendedProducts(profile domain.UserProfile, catalog []domain.Product) []domain.Product {
	return e.Recommend(profile, catalog).Products
}

var defaultEngine = NewEngine(DefaultPolicy())

// GetRecommendedProducts runs the rules with the default policy.
func GetRecommendedProducts(profile domain.UserProfile, catalog []domain.Product) []domain.Product {
	return defaultEngine.GetRecommendedProducts(profile, catalog)
}

func activeOnly(catalog []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

func filterByProductType(catalog []domain.Product, productType string) []domain.Product {
	category, ok := domain.CategoryForProductType(productType)

	out := make([]domain.Product, 0)
	for _, p := range catalog {
		if ok && p.Category == category {
			out = append(out, p)
		} else if !ok && strings.EqualFold(p.Category, productType) {
			out = append(out, p)
		}
	}
	return out
}

// dedupe keeps the first occurrence of every product id.
func dedupe(products []domain.Product) []domain.Product {
	seen := make(map[uint64]struct{}, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// sortByRoutine orders products by RoutineOrder, unknown categories last,
// keeping input order among equals.
func sortByRoutine(products []domain.Product) []domain.Product {
	sort.SliceStable(products, func(i, j int) bool {
		return domain.RoutineIndex(products[i].Category) < domain.RoutineIndex(products[j].Category)
	})
	return products
}
