package recommendation

import "github.com/lorenzotett/alma-skin-guru-sub000/domain"

// pick is one routine entry. targeted marks products chosen for a specific
// condition or concern; untargeted picks may be replaced by augmenters.
type pick struct {
	product  domain.Product
	targeted bool
}

// Routine is an ordered list of picks. Augmenters never modify a Routine in
// place, they return a new one.
type Routine []pick

func (r Routine) Products() []domain.Product {
	out := make([]domain.Product, 0, len(r))
	for _, p := range r {
		out = append(out, p.product)
	}
	return out
}

func (r Routine) indexOf(category string) int {
	for i, p := range r {
		if p.product.Category == category {
			return i
		}
	}
	return -1
}

func (r Routine) ids() map[uint64]struct{} {
	ids := make(map[uint64]struct{}, len(r))
	for _, p := range r {
		ids[p.product.ID] = struct{}{}
	}
	return ids
}

func (r Routine) replace(i int, p pick) Routine {
	out := make(Routine, len(r))
	copy(out, r)
	out[i] = p
	return out
}

func (r Routine) add(p pick) Routine {
	out := make(Routine, len(r), len(r)+1)
	copy(out, r)
	return append(out, p)
}

// stepRule describes one routine step: which category fills it, which
// concern tags are preferred and whether a tag match is mandatory.
type stepRule struct {
	Category   string
	Tags       []string
	RequireTag bool
}

// selectForStep returns the best catalog product for a step. Candidates are
// ranked by exact skin type match, then tag match, then catalog order.
func selectForStep(catalog []domain.Product, skinType string, rule stepRule, exclude map[uint64]struct{}) (domain.Product, bool, bool) {
	best := -1
	bestScore := -1
	bestTagged := false

	for i, p := range catalog {
		if p.Category != rule.Category {
			continue
		}
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		ok, exact := suitsSkin(p, skinType)
		if !ok {
			continue
		}
		tagged := treats(p, rule.Tags)
		if rule.RequireTag && !tagged {
			continue
		}

		score := 0
		if exact {
			score += 2
		}
		if tagged {
			score++
		}
		if score > bestScore {
			best, bestScore, bestTagged = i, score, tagged
		}
	}

	if best < 0 {
		return domain.Product{}, false, false
	}
	return catalog[best], bestTagged, true
}

// buildSteps fills each step in order. Steps without a matching product are
// skipped. Picks count as targeted only for condition routines and only when
// a tag matched.
func buildSteps(catalog []domain.Product, skinType string, steps []stepRule, conditionSpecific bool) Routine {
	routine := make(Routine, 0, len(steps))
	used := make(map[uint64]struct{}, len(steps))

	for _, step := range steps {
		p, tagged, ok := selectForStep(catalog, skinType, step, used)
		if !ok {
			continue
		}
		used[p.ID] = struct{}{}
		routine = append(routine, pick{product: p, targeted: conditionSpecific && tagged})
	}

	return routine
}

var (
	rosaceaTags   = []string{"rosacea", "couperose", domain.ConcernRedness}
	acneTags      = []string{domain.ConcernAcne, "imperfezioni", "brufoli", "punti_neri"}
	sensitiveTags = []string{"sensibilita", "pelle_sensibile", "lenitivo", domain.ConcernRedness}
	maskSkinTags  = []string{"purificante", "detox", domain.SkinAsphyxiated}
)

func rosaceaRoutine(catalog []domain.Product, skinType string) Routine {
	return buildSteps(catalog, skinType, []stepRule{
		{Category: domain.CategoryCleanser, Tags: rosaceaTags},
		{Category: domain.CategoryToner, Tags: rosaceaTags, RequireTag: true},
		{Category: domain.CategorySerum, Tags: rosaceaTags},
		{Category: domain.CategoryFaceCream, Tags: rosaceaTags},
		{Category: domain.CategorySunscreen, Tags: append([]string{"sensibilita"}, rosaceaTags...)},
	}, true)
}

func acneRoutine(catalog []domain.Product, skinType string) Routine {
	oilyTags := append([]string{domain.ConcernOiliness}, acneTags...)
	return buildSteps(catalog, skinType, []stepRule{
		{Category: domain.CategoryCleanser, Tags: acneTags},
		{Category: domain.CategoryToner, Tags: oilyTags},
		{Category: domain.CategorySerum, Tags: acneTags},
		{Category: domain.CategoryFaceCream, Tags: oilyTags},
		{Category: domain.CategorySunscreen, Tags: oilyTags},
	}, true)
}

func sensitiveRoutine(catalog []domain.Product, skinType string) Routine {
	return buildSteps(catalog, skinType, []stepRule{
		{Category: domain.CategoryCleanser, Tags: sensitiveTags},
		{Category: domain.CategoryToner, Tags: sensitiveTags, RequireTag: true},
		{Category: domain.CategorySerum, Tags: sensitiveTags},
		{Category: domain.CategoryFaceCream, Tags: sensitiveTags},
		{Category: domain.CategorySunscreen, Tags: sensitiveTags},
	}, true)
}

// minSerumAge is the age from which the base routine includes a serum.
const minSerumAge = 25

// baseRoutine is driven by skin type and age. The user's own concerns act
// as a soft preference but never make a pick targeted.
func baseRoutine(catalog []domain.Product, skinType string, age int, concerns ConcernSet) Routine {
	tags := concerns.Ordered()

	steps := []stepRule{
		{Category: domain.CategoryCleanser, Tags: tags},
		{Category: domain.CategoryToner, Tags: tags},
	}
	if age >= minSerumAge {
		steps = append(steps, stepRule{Category: domain.CategorySerum, Tags: tags})
	}
	steps = append(steps,
		stepRule{Category: domain.CategoryFaceCream, Tags: tags},
		stepRule{Category: domain.CategorySunscreen, Tags: tags},
	)
	if skinType == domain.SkinAsphyxiated {
		steps = append(steps, stepRule{Category: domain.CategoryMask, Tags: maskSkinTags})
	}

	return buildSteps(catalog, skinType, steps, false)
}

// buildBase dispatches to the builder of the resolved condition.
func buildBase(condition PrimaryCondition, catalog []domain.Product, skinType string, age int, concerns ConcernSet) Routine {
	switch condition {
	case ConditionRosacea:
		return rosaceaRoutine(catalog, skinType)
	case ConditionAcne:
		return acneRoutine(catalog, skinType)
	case ConditionSensitive:
		return sensitiveRoutine(catalog, skinType)
	default:
		return baseRoutine(catalog, skinType, age, concerns)
	}
}
