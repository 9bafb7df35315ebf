package domain

// Recommendation is what the quiz results step receives.
type Recommendation struct {
	LeadID     string    `json:"lead_id,omitempty"`
	Condition  string    `json:"condition"`
	Augmenters []string  `json:"augmenters,omitempty"`
	Message    string    `json:"message"`
	Products   []Product `json:"products"`
	Total      float64   `json:"total"`
}

// Contact is the optional last quiz step.
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Consent  bool   `json:"consent"`
}

// QuizSubmission is a completed quiz, with the photo scores when the
// visitor used the analysis.
type QuizSubmission struct {
	Profile UserProfile
	Contact *Contact
	Scores  *SkinScores
}
