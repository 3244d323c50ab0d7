package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/generated/servers"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	// RoleAdmin is the only role allowed on operator endpoints.
	RoleAdmin = "ADMIN"

	operatorPrefix = "/api/v1/operator/"

	// ContextKeyOperator holds the authenticated *OperatorClaims.
	ContextKeyOperator = "operator"
)

var errOperatorAuthDisabled = errors.New("operator access is not configured")

// OperatorClaims are the JWT claims accepted on operator endpoints.
type OperatorClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewOperatorToken signs an HS256 token for an operator.
func NewOperatorToken(secret []byte, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &OperatorClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "dispatch",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseOperatorToken(secret []byte, raw string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &OperatorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// OperatorAuth requires a bearer token with role ADMIN on operator endpoints and lets
// every other request through. An empty secret locks the operator endpoints.
func OperatorAuth(secret []byte, logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "operator_auth")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !strings.HasPrefix(ctx.Request().URL.Path, operatorPrefix) {
				return next(ctx)
			}
			if len(secret) == 0 {
				return unauthorized(ctx, errOperatorAuthDisabled.Error())
			}

			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return unauthorized(ctx, "missing or malformed authorization header")
			}

			claims, err := parseOperatorToken(secret, parts[1])
			if err != nil {
				logger.WarnContext(ctx.Request().Context(), "operator token rejected", "error", err)
				return unauthorized(ctx, "invalid or expired token")
			}
			if claims.Role != RoleAdmin {
				logger.WarnContext(ctx.Request().Context(), "operator role required",
					"user_id", claims.UserID, "role", claims.Role)
				return ctx.JSON(http.StatusForbidden, servers.Error{
					Code:    http.StatusForbidden,
					Message: "admin role required",
				})
			}

			ctx.Set(ContextKeyOperator, claims)
			return next(ctx)
		}
	}
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, servers.Error{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}
