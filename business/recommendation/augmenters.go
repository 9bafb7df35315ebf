package recommendation

import "github.com/lorenzotett/alma-skin-guru-sub000/domain"

type augmentMode int

const (
	// substitute replaces an untargeted pick of the same category, or fills
	// the step when it is missing.
	substitute augmentMode = iota
	// additive only fills a missing step.
	additive
)

// stepAugment is one adjustment an augmenter makes on a single category.
type stepAugment struct {
	mode augmentMode
	rule stepRule
}

// augmentInput is the read-only data shared by every augmenter of a run.
type augmentInput struct {
	catalog  []domain.Product
	skinType string
	policy   Policy
}

// augmenter is a pure routine transform guarded by its trigger.
type augmenter struct {
	name    string
	applies func(c ConcernSet, age int, p Policy) bool
	steps   []stepAugment
}

func (a augmenter) apply(r Routine, in augmentInput) Routine {
	for _, s := range a.steps {
		r = s.apply(r, in)
	}
	return r
}

func (s stepAugment) apply(r Routine, in augmentInput) Routine {
	category := s.rule.Category
	idx := r.indexOf(category)

	// The current pick already covers this concern: keep it, but protect it
	// from later substitutions.
	if idx >= 0 && treats(r[idx].product, s.rule.Tags) {
		if r[idx].targeted {
			return r
		}
		return r.replace(idx, pick{product: r[idx].product, targeted: true})
	}

	candidate, _, ok := selectForStep(in.catalog, in.skinType, s.rule, r.ids())
	if !ok {
		return r
	}
	next := pick{product: candidate, targeted: true}

	switch {
	case idx < 0:
		return r.add(next)
	case s.mode == substitute && !r[idx].targeted:
		return r.replace(idx, next)
	case in.policy.widens(category):
		return r.add(next)
	default:
		return r
	}
}

var (
	brighteningTags = []string{domain.ConcernPigmentation, domain.ConcernSunDamage, "macchie", "illuminante", "uniformante"}
	sunscreenTags   = []string{domain.ConcernPigmentation, domain.ConcernSunDamage, "macchie", "spf50"}
	antiAgingTags   = []string{domain.ConcernWrinkles, "antieta", "anti_age", "antirughe"}
	eyeContourTags  = []string{domain.ConcernDarkCircles, "borse", "contorno_occhi"}
	poreTags        = []string{domain.ConcernEnlargedPores, domain.ConcernTexture, "pori", "esfoliante", "levigante"}
	poreMaskTags    = []string{domain.ConcernEnlargedPores, "purificante", "argilla"}
	firmingTags     = []string{domain.ConcernElasticity, "rassodante", "tonicita", "compattezza"}
)

// augmenters run in this order; later ones skip steps that earlier ones
// already targeted unless the policy widens that step.
var augmenters = []augmenter{
	{
		name:    "pigmentation",
		applies: func(c ConcernSet, _ int, _ Policy) bool { return HasPigmentation(c) },
		steps: []stepAugment{
			{mode: substitute, rule: stepRule{Category: domain.CategorySerum, Tags: brighteningTags, RequireTag: true}},
			{mode: additive, rule: stepRule{Category: domain.CategorySunscreen, Tags: sunscreenTags}},
		},
	},
	{
		name:    "anti_aging",
		applies: func(c ConcernSet, age int, p Policy) bool { return HasAntiAging(c, age, p.AntiAgingAge) },
		steps: []stepAugment{
			{mode: substitute, rule: stepRule{Category: domain.CategorySerum, Tags: antiAgingTags, RequireTag: true}},
			{mode: substitute, rule: stepRule{Category: domain.CategoryFaceCream, Tags: antiAgingTags, RequireTag: true}},
		},
	},
	{
		name:    "dark_circles",
		applies: func(c ConcernSet, _ int, _ Policy) bool { return HasDarkCircles(c) },
		steps: []stepAugment{
			{mode: additive, rule: stepRule{Category: domain.CategoryEyeContour, Tags: eyeContourTags}},
		},
	},
	{
		name:    "enlarged_pores",
		applies: func(c ConcernSet, _ int, _ Policy) bool { return HasEnlargedPores(c) },
		steps: []stepAugment{
			{mode: substitute, rule: stepRule{Category: domain.CategoryToner, Tags: poreTags, RequireTag: true}},
			{mode: additive, rule: stepRule{Category: domain.CategoryMask, Tags: poreMaskTags, RequireTag: true}},
		},
	},
	{
		name:    "elasticity",
		applies: func(c ConcernSet, _ int, _ Policy) bool { return HasElasticity(c) },
		steps: []stepAugment{
			{mode: substitute, rule: stepRule{Category: domain.CategoryFaceCream, Tags: firmingTags, RequireTag: true}},
		},
	},
}

// augment folds every triggered augmenter over the base routine.
func augment(base Routine, concerns ConcernSet, age int, in augmentInput) (Routine, []string) {
	r := base
	var applied []string
	for _, a := range augmenters {
		if !a.applies(concerns, age, in.policy) {
			continue
		}
		r = a.apply(r, in)
		applied = append(applied, a.name)
	}
	return r, applied
}
