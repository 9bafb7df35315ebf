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

type AdvisorService interface {
	Reply(ctx context.Context, req domain.ChatRequest) (domain.ChatReply, error)
}

type ChatHandler struct {
	advisorService AdvisorService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewChatHandler(advisorService AdvisorService) *ChatHandler {
	return &ChatHandler{
		advisorService: advisorService,
		validator:      validator.New(),
		timeout:        45 * time.Second,
	}
}

type ChatInput struct {
	Message  string               `json:"message" validate:"required"`
	History  []domain.ChatMessage `json:"history" validate:"dive"`
	Profile  *ProfileRequest      `json:"profile"`
	Products []domain.Product     `json:"products"`
}

// Chat answers on one of the advisors selected by :kind.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatInput

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind chat request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate chat request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	chat := domain.ChatRequest{
		Kind:     c.Param("kind"),
		Message:  req.Message,
		History:  req.History,
		Products: req.Products,
	}
	if req.Profile != nil {
		profile := req.Profile.toProfile()
		chat.Profile = &profile
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reply, err := h.advisorService.Reply(ctx, chat)
	if err != nil {
		if err.Error() == "unknown chat kind" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, reply)
}
