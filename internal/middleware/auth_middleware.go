package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
	jsonres "github.com/lorenzotett/alma-skin-guru-sub000/pkg/response"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/utils"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks that a token still has a live session.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

type authFailure struct {
	status  int
	code    string
	message string
}

func (f *authFailure) send(c echo.Context) error {
	return c.JSON(f.status, jsonres.Error(f.code, f.message, nil))
}

func unauthorized(msg string) *authFailure {
	return &authFailure{status: http.StatusUnauthorized, code: "UNAUTHORIZED", message: msg}
}

func forbidden(msg string) *authFailure {
	return &authFailure{status: http.StatusForbidden, code: "FORBIDDEN", message: msg}
}

// bearerClaims reads and verifies the Bearer token of the request.
func bearerClaims(c echo.Context) (*utils.Claims, string, *authFailure) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", unauthorized("Missing authorization header")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, "", unauthorized("Invalid authorization format")
	}
	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		logger.Debug("Failed to parse JWT", err)
		return nil, "", unauthorized("Invalid token")
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil || time.Now().After(expAt.Time) {
		return nil, "", forbidden("Token expired")
	}

	return claims, tokenString, nil
}

func setIdentity(c echo.Context, claims *utils.Claims, token string) *authFailure {
	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("Invalid user ID in token", err)
		return forbidden("Invalid user ID in token")
	}

	c.Set("user_id", uint(userIDUint))
	c.Set("role", claims.Role)
	c.Set("token", token)
	return nil
}

// AuthMiddleware verifies the JWT only; used when no session store is available.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, token, fail := bearerClaims(c)
			if fail != nil {
				return fail.send(c)
			}

			if fail := setIdentity(c, claims, token); fail != nil {
				return fail.send(c)
			}

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis also requires the token to have a live session,
// so logout revokes it.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, token, fail := bearerClaims(c)
			if fail != nil {
				return fail.send(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokenValidator.ValidateTokenFromRedis(ctx, token)
			if err != nil {
				logger.Error("Token has no live session", err)
				return unauthorized("Token expired or invalid").send(c)
			}

			if userID != claims.UserID {
				logger.Error("UserID mismatch between token and session")
				return unauthorized("Invalid token").send(c)
			}

			if fail := setIdentity(c, claims, token); fail != nil {
				return fail.send(c)
			}

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRoles(domain.RoleAdmin)
}

// StaffOnly lets any back office role through.
func StaffOnly() echo.MiddlewareFunc {
	return RequireRoles(domain.RoleAdmin, domain.RoleEditor)
}

func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, ok := c.Get("role").(string)
			if ok {
				for _, r := range roles {
					if strings.EqualFold(roleStr, r) {
						return next(c)
					}
				}
			}

			if len(roles) == 1 && roles[0] == domain.RoleAdmin {
				return forbidden("Admin access required").send(c)
			}
			return forbidden("Staff access required").send(c)
		}
	}
}

// SelfOrAdmin lets a user reach their own :id, admins reach any.
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedInUserID, ok := c.Get("user_id").(uint)
			if !ok {
				return unauthorized("User not authenticated").send(c)
			}

			roleStr, ok := c.Get("role").(string)
			if !ok {
				return forbidden("Invalid role").send(c)
			}

			if strings.EqualFold(roleStr, domain.RoleAdmin) {
				return next(c)
			}

			requestedIDUint, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, jsonres.Error(
					"BAD_REQUEST", "Invalid user ID", nil,
				))
			}

			if uint(requestedIDUint) != loggedInUserID {
				return forbidden("You can only access your own data").send(c)
			}

			return next(c)
		}
	}
}
