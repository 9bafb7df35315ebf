package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CartHandler struct {
		validate    *validator.Validate
		cartService CartService
		timeout     time.Duration
	}

	CartService interface {
		CreateCart(ctx context.Context, leadID string, productIDs []uint64) (domain.Cart, error)
		GetCart(ctx context.Context, id string) (domain.Cart, error)
		AddItem(ctx context.Context, id string, productID uint64, quantity int) (domain.Cart, error)
		SetQuantity(ctx context.Context, id string, productID uint64, quantity int) (domain.Cart, error)
		RemoveItem(ctx context.Context, id string, productID uint64) (domain.Cart, error)
		DeleteCart(ctx context.Context, id string) error
		CheckoutURL(ctx context.Context, id string) (string, error)
	}

	CartInput struct {
		LeadID     string   `json:"lead_id"`
		ProductIDs []uint64 `json:"product_ids" validate:"max=50"`
	}

	CartItemInput struct {
		ProductID uint64 `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,min=1"`
	}

	CartQuantityInput struct {
		Quantity int `json:"quantity" validate:"min=0"`
	}

	cartView struct {
		domain.Cart
		Total float64 `json:"total"`
	}
)

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		validate:    validator.New(),
		cartService: cartService,
		timeout:     10 * time.Second,
	}
}

func (h *CartHandler) cartError(c echo.Context, err error) error {
	msg := err.Error()
	switch {
	case msg == "cart not found" || msg == "item not found" || msg == "product not found":
		return c.JSON(http.StatusNotFound, ResponseError{Message: msg})
	case msg == "quantity too large" || strings.HasPrefix(msg, "quantity must be"):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: msg})
	}
	logger.Error("Cart operation failed", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: msg})
}

func (h *CartHandler) CreateCart(c echo.Context) error {
	var request CartInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate cart input", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.CreateCart(ctx, request.LeadID, request.ProductIDs)
	if err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(cartView{cart, cart.Total()}))
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, c.Param("id"))
	if err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cartView{cart, cart.Total()}))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var request CartItemInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate cart item", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.AddItem(ctx, c.Param("id"), request.ProductID, request.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cartView{cart, cart.Total()}))
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	var request CartQuantityInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.SetQuantity(ctx, c.Param("id"), productID, request.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cartView{cart, cart.Total()}))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.RemoveItem(ctx, c.Param("id"), productID)
	if err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cartView{cart, cart.Total()}))
}

func (h *CartHandler) DeleteCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.DeleteCart(ctx, c.Param("id")); err != nil {
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Cart deleted successfully"))
}

// Checkout returns the shop permalink that fills the shop cart.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	url, err := h.cartService.CheckoutURL(ctx, c.Param("id"))
	if err != nil {
		msg := err.Error()
		switch {
		case msg == "checkout not configured":
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: msg})
		case msg == "cart is empty" || strings.HasSuffix(msg, "is not available online"):
			return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: msg})
		}
		return h.cartError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "successfully build checkout url",
		"checkout_url": url,
	})
}
