package domain

// SkinScores are the seven 1-10 scores returned by the photo analysis.
// Hydration and Elasticity measure how good the skin is on that axis;
// the remaining scores measure how visible the problem is.
type SkinScores struct {
	Hydration    int `json:"idratazione"`
	Elasticity   int `json:"elasticita"`
	Pigmentation int `json:"pigmentazione"`
	Acne         int `json:"acne"`
	Wrinkles     int `json:"rughe"`
	Pores        int `json:"pori"`
	Redness      int `json:"rossori"`
}

// FallbackSkinScores is used whenever the analysis provider fails.
var FallbackSkinScores = SkinScores{
	Hydration:    6,
	Elasticity:   7,
	Pigmentation: 5,
	Acne:         4,
	Wrinkles:     5,
	Pores:        5,
	Redness:      4,
}

type SkinAnalysis struct {
	Scores            SkinScores `json:"scores"`
	SuggestedConcerns []string   `json:"suggested_concerns"`
	Fallback          bool       `json:"fallback"`
}
