package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"talksport/internal/auth"
	"talksport/internal/config"
	apperrors "talksport/internal/errors"
	"talksport/internal/handler"
	"talksport/internal/ws"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Auth *handler.AuthHandler
	Post *handler.PostHandler
	Feed *handler.FeedHandler
	Hub  *ws.Hub
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, verifier *auth.SessionVerifier, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
	}))
	e.Use(middleware.BodyLimit("1M"))

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/posts", h.Post.ListPosts)
	api.GET("/posts/:id", h.Post.GetPost)
	if h.Hub != nil {
		api.GET("/ws", h.Hub.ServeWs)
	}

	// Session is optional; it only personalises the response.
	api.GET("/feed", h.Feed.GetFeed, verifier.OptionalMiddleware())

	// Secured routes (require a valid session). Middleware is attached per
	// route so unknown paths under /api still answer 404.
	secured := verifier.Middleware()

	api.POST("/auth/logout", h.Auth.Logout, secured)
	api.GET("/auth/me", h.Auth.Me, secured)

	api.POST("/posts", h.Post.CreatePost, secured)
	api.PUT("/posts/:id", h.Post.UpdatePost, secured)
	api.DELETE("/posts/:id", h.Post.DeletePost, secured)
	api.POST("/posts/:id/like", h.Post.ToggleLike, secured)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
// Failures are reported as ErrValidation with one message per failing field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ErrorHandler renders every error as {success:false, message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := http.StatusInternalServerError, apperrors.ErrorResponse{Message: "internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body.Message = msg
		default:
			body.Message = http.StatusText(he.Code)
		}
		if he.Internal != nil && status >= http.StatusInternalServerError {
			c.Logger().Error(he.Internal)
		}
	} else {
		httpErr := apperrors.MapErrorToHTTP(err)
		if httpErr.Internal {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		}
		status, body = httpErr.StatusCode, httpErr.ToErrorResponse()
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

// allowsAnyOrigin reports whether origins contains the "*" wildcard. Browsers
// refuse credentialed responses carrying a wildcard origin, so credentials are
// only advertised for an explicit origin list.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
