package recommendation

import "github.com/lorenzotett/alma-skin-guru-sub000/domain"

// DefaultAntiAgingAge is the age from which anti-aging products are added
// even without an explicit wrinkle concern.
const DefaultAntiAgingAge = 40

var (
	acneLabels         = []string{domain.ConcernAcne}
	rednessLabels      = []string{domain.ConcernRedness}
	pigmentationLabels = []string{domain.ConcernPigmentation, domain.ConcernSunDamage}
	antiAgingLabels    = []string{domain.ConcernWrinkles}
	darkCircleLabels   = []string{domain.ConcernDarkCircles}
	enlargedPoreLabels = []string{domain.ConcernEnlargedPores, domain.ConcernTexture}
	elasticityLabels   = []string{domain.ConcernElasticity}
)

// HasRosacea is true when acne and redness are reported together.
func HasRosacea(c ConcernSet) bool {
	return c.HasAny(acneLabels...) && c.HasAny(rednessLabels...)
}

// HasAcne only matches acne that was not already classified as rosacea.
func HasAcne(c ConcernSet) bool {
	return c.HasAny(acneLabels...) && !HasRosacea(c)
}

// HasSensitiveSkin matches redness that is neither rosacea nor acne.
func HasSensitiveSkin(c ConcernSet) bool {
	return c.HasAny(rednessLabels...) && !HasRosacea(c) && !HasAcne(c)
}

func HasPigmentation(c ConcernSet) bool {
	return c.HasAny(pigmentationLabels...)
}

// HasAntiAging matches an explicit wrinkle concern or any age at or above
// threshold.
func HasAntiAging(c ConcernSet, age, threshold int) bool {
	return c.HasAny(antiAgingLabels...) || (threshold > 0 && age >= threshold)
}

func HasDarkCircles(c ConcernSet) bool {
	return c.HasAny(darkCircleLabels...)
}

func HasEnlargedPores(c ConcernSet) bool {
	return c.HasAny(enlargedPoreLabels...)
}

func HasElasticity(c ConcernSet) bool {
	return c.HasAny(elasticityLabels...)
}
