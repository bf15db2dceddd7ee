package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// accountSummary is the public shape of an account; the password hash never
// leaves the service.
func accountSummary(a *model.Account) echo.Map {
	return echo.Map{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
		"role":  a.Role,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("invalid request", "could not parse the request body"))
	}

	session, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		log.Error("Registration failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return fail(c, err)
	}

	log.Info("Account registered",
		zap.String("email", session.Account.Email),
		zap.String("role", string(session.Account.Role)))

	message := "account created successfully"
	if session.Account.Role == model.RoleClient {
		message = "client account created successfully"
	}
	return respond(c, http.StatusCreated, echo.Map{
		"token": session.Token,
		"user":  accountSummary(session.Account),
	}, message)
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("invalid request", "could not parse the request body"))
	}

	session, err := h.Auth.Login(c.Request().Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		log.Error("Login failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("login_failed")
		return fail(c, err)
	}

	log.Info("Account logged in",
		zap.String("email", session.Account.Email),
		zap.String("role", string(session.Account.Role)))

	return respond(c, http.StatusOK, echo.Map{
		"token": session.Token,
		"user":  accountSummary(session.Account),
	}, "login successful")
}
