package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type QuizService interface {
	Recommend(ctx context.Context, sub domain.QuizSubmission) (domain.Recommendation, error)
}

type QuizHandler struct {
	quizService QuizService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewQuizHandler(quizService QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type ContactRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Consent  bool   `json:"consent"`
}

// ProfileRequest is the quiz answer set as the funnel sends it. The quiz
// lets the visitor tick more than one skin type; the first known one wins.
type ProfileRequest struct {
	SkinType    string   `json:"skin_type"`
	SkinTypes   []string `json:"skin_types"`
	Age         int      `json:"age" validate:"gte=0,lte=120"`
	Concerns    []string `json:"concerns"`
	ProductType string   `json:"product_type"`
}

func (r ProfileRequest) toProfile() domain.UserProfile {
	profile := domain.UserProfile{
		Age:         r.Age,
		ProductType: r.ProductType,
		Concerns:    make([]string, 0, len(r.Concerns)),
	}

	for _, t := range append([]string{r.SkinType}, r.SkinTypes...) {
		if domain.IsSkinType(t) {
			profile.SkinType = t
			break
		}
	}

	for _, c := range r.Concerns {
		if domain.IsConcern(c) {
			profile.Concerns = append(profile.Concerns, c)
		}
	}

	return profile
}

type QuizRequest struct {
	ProfileRequest
	Contact *ContactRequest    `json:"contact"`
	Scores  *domain.SkinScores `json:"scores"`
}

func (r *ContactRequest) toContact() *domain.Contact {
	if r == nil {
		return nil
	}
	return &domain.Contact{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Consent:  r.Consent,
	}
}

// Recommend serves the quiz results step.
func (h *QuizHandler) Recommend(c echo.Context) error {
	var req QuizRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind quiz request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate quiz request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reco, err := h.quizService.Recommend(ctx, domain.QuizSubmission{
		Profile: req.toProfile(),
		Contact: req.Contact.toContact(),
		Scores:  req.Scores,
	})
	if err != nil {
		logger.Error("Failed to build recommendation", err)
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "recommendations are temporarily unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "successfully get recommendation",
		"recommendation": reco,
	})
}
