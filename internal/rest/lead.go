package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	LeadHandler struct {
		validate    *validator.Validate
		leadService LeadService
		timeout     time.Duration
	}

	LeadService interface {
		CreateLead(ctx context.Context, lead *domain.Lead, productIDs []uint64) (domain.Lead, error)
		GetLead(ctx context.Context, id string) (domain.Lead, error)
		ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int64, error)
		Analytics(ctx context.Context, days int) (domain.LeadAnalytics, error)
	}

	LeadInput struct {
		FullName   string             `json:"full_name" validate:"max=200"`
		Email      string             `json:"email" validate:"required,email"`
		Phone      string             `json:"phone" validate:"max=40"`
		Consent    bool               `json:"consent"`
		Profile    ProfileRequest     `json:"profile"`
		Condition  string             `json:"condition"`
		Message    string             `json:"message"`
		ProductIDs []uint64           `json:"product_ids" validate:"max=50"`
		Scores     *domain.SkinScores `json:"scores"`
	}
)

func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{
		validate:    validator.New(),
		leadService: leadService,
		timeout:     10 * time.Second,
	}
}

// CreateLead captures the contact form shown after the results.
func (h *LeadHandler) CreateLead(c echo.Context) error {
	var request LeadInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate lead input", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	profile := request.Profile.toProfile()
	lead := domain.Lead{
		FullName:    request.FullName,
		Email:       request.Email,
		Phone:       request.Phone,
		Consent:     request.Consent,
		SkinType:    profile.SkinType,
		Age:         profile.Age,
		Concerns:    profile.Concerns,
		ProductType: profile.ProductType,
		Condition:   request.Condition,
		Message:     request.Message,
	}
	if request.Scores != nil {
		if err := lead.SetSkinScores(*request.Scores); err != nil {
			logger.Error("Failed to encode skin scores", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid skin scores"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.leadService.CreateLead(ctx, &lead, request.ProductIDs)
	if err != nil {
		logger.Error("Failed to create lead", err)
		if err.Error() == "invalid email format" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to save contact"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *LeadHandler) GetLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	lead, err := h.leadService.GetLead(ctx, c.Param("id"))
	if err != nil {
		logger.Error("Failed to get lead", err)
		switch err.Error() {
		case "invalid lead id":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case "lead not found":
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(lead))
}

// ListLeads supports page, page_size, skin_type and email query params.
func (h *LeadHandler) ListLeads(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	filter := domain.LeadFilter{
		Page:     page,
		PageSize: pageSize,
		SkinType: c.QueryParam("skin_type"),
		Email:    c.QueryParam("email"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	leads, total, err := h.leadService.ListLeads(ctx, filter)
	if err != nil {
		logger.Error("Failed to list leads", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get leads",
		"leads":   leads,
		"total":   total,
		"page":    max(page, 1),
	})
}

func (h *LeadHandler) Analytics(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	analytics, err := h.leadService.Analytics(ctx, days)
	if err != nil {
		logger.Error("Failed to get lead analytics", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(analytics))
}
