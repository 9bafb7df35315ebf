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

type AnalysisService interface {
	Analyze(ctx context.Context, image, mimeType string) (domain.SkinAnalysis, error)
}

type AnalysisHandler struct {
	analysisService AnalysisService
	validator       *validator.Validate
	timeout         time.Duration
}

// NewAnalysisHandler uses a longer timeout than the other handlers, the
// provider may retry.
func NewAnalysisHandler(analysisService AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		validator:       validator.New(),
		timeout:         60 * time.Second,
	}
}

type AnalysisRequest struct {
	Image    string `json:"image" validate:"required"`
	MimeType string `json:"mime_type"`
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req AnalysisRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind analysis request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate analysis request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "image is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	analysis, err := h.analysisService.Analyze(ctx, req.Image, req.MimeType)
	if err != nil {
		if err.Error() == "image too large" {
			return c.JSON(http.StatusRequestEntityTooLarge, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully analyzed skin",
		"analysis": analysis,
	})
}
