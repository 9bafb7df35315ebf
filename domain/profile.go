package domain

import "strings"

// Skin types collected by the quiz.
const (
	SkinDry         = "secca"
	SkinOily        = "grassa"
	SkinCombo       = "mista"
	SkinNormal      = "normale"
	SkinAsphyxiated = "asfittica"
)

// Concern vocabulary collected by the quiz.
const (
	ConcernRedness       = "rossori"
	ConcernAcne          = "acne"
	ConcernWrinkles      = "rughe"
	ConcernPigmentation  = "pigmentazione"
	ConcernEnlargedPores = "pori_dilatati"
	ConcernOiliness      = "oleosita"
	ConcernSunDamage     = "danni_solari"
	ConcernDarkCircles   = "occhiaie"
	ConcernDehydration   = "disidratazione"
	ConcernElasticity    = "elasticita"
	ConcernTexture       = "texture"
	ConcernNone          = "nessuna"
)

// SkinTypes lists the accepted skin types in quiz order.
var SkinTypes = []string{SkinDry, SkinOily, SkinCombo, SkinNormal, SkinAsphyxiated}

// Concerns lists the accepted concerns in quiz order.
var Concerns = []string{
	ConcernRedness,
	ConcernAcne,
	ConcernWrinkles,
	ConcernPigmentation,
	ConcernEnlargedPores,
	ConcernOiliness,
	ConcernSunDamage,
	ConcernDarkCircles,
	ConcernDehydration,
	ConcernElasticity,
	ConcernTexture,
	ConcernNone,
}

// UserProfile is the quiz answer set the recommender works on.
type UserProfile struct {
	SkinType    string   `json:"skin_type"`
	Age         int      `json:"age"`
	Concerns    []string `json:"concerns"`
	ProductType string   `json:"product_type,omitempty"`
}

// WantsFullRoutine reports whether the profile asks for a complete routine
// rather than a single product category.
func (p UserProfile) WantsFullRoutine() bool {
	key := strings.ToLower(strings.TrimSpace(p.ProductType))
	return key == "" || key == ProductTypeRoutine
}

func IsSkinType(s string) bool {
	for _, t := range SkinTypes {
		if t == s {
			return true
		}
	}
	return false
}

func IsConcern(s string) bool {
	for _, c := range Concerns {
		if c == s {
			return true
		}
	}
	return false
}
