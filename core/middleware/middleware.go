package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"event-checkin/core/constants"
	"event-checkin/core/controller"
	"event-checkin/core/errors"
	"event-checkin/core/logger"
	"event-checkin/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	secret []byte
}

func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// AuthMiddleware requires a valid admin bearer token and stores its claims in
// the context under constants.ContextKeyTokenClaims.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "Invalid authorization header format")
			}

			claims, err := utils.ValidateAndParseToken(m.secret, strings.TrimSpace(token))
			if err != nil {
				if stderrors.Is(err, jwt.ErrTokenExpired) {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrTokenExpired, "Token expired")
				}
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Invalid token")
			}
			if claims.Scope != constants.ScopeTokenAdmin {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "Admin scope required")
			}

			c.Set(constants.ContextKeyTokenClaims, claims)
			return next(c)
		}
	}
}

func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return utils.GenerateIDN(16) },
	})
}

// RequestLogger logs one line per request through the process logger.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Error("HTTP:Request", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", args...)
			return nil
		},
	})
}
