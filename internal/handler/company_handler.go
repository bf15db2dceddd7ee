package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/middleware"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

// CompanyHandler exposes the tenancy registry.
type CompanyHandler struct {
	Tenancy   *service.TenancyService
	Creatives *service.CreativeService
}

func NewCompanyHandler(tenancy *service.TenancyService, creatives *service.CreativeService) *CompanyHandler {
	return &CompanyHandler{Tenancy: tenancy, Creatives: creatives}
}

// Create handles company creation, with an optional logo file.
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCompanyOperation("create")

	account := middleware.AccountFrom(c)

	logo, err := optionalFormFile(c, "logo")
	if err != nil {
		return fail(c, err)
	}

	company, err := h.Tenancy.Create(c.Request().Context(), service.CreateCompanyInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		ClientEmail: c.FormValue("client_email"),
		Logo:        logo,
		CreatorID:   account.ID,
	})
	if err != nil {
		log.Error("Failed to create company", zap.Error(err))
		return fail(c, err)
	}

	log.Info("Company created",
		zap.String("id", company.ID),
		zap.String("name", company.Name))
	return respond(c, http.StatusCreated, company, "company created successfully")
}

// List handles company listing; inactive companies only on request.
func (h *CompanyHandler) List(c echo.Context) error {
	prometheus.RecordCompanyOperation("list")

	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))
	companies, err := h.Tenancy.List(c.Request().Context(), includeInactive)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list companies", zap.Error(err))
		return fail(c, err)
	}
	return respond(c, http.StatusOK, companies, "")
}

// GetByID returns one company with its creative count.
func (h *CompanyHandler) GetByID(c echo.Context) error {
	prometheus.RecordCompanyOperation("get")

	company, err := h.Tenancy.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, company, "")
}

// Update applies a partial update; fields not sent are left untouched.
func (h *CompanyHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCompanyOperation("update")

	var in service.UpdateCompanyInput
	if v, ok := optionalFormValue(c, "name"); ok {
		in.Name = &v
	}
	if v, ok := optionalFormValue(c, "description"); ok {
		in.Description = &v
	}
	if v, ok := optionalFormValue(c, "client_email"); ok {
		in.ClientEmail = &v
	}
	if v, ok := optionalFormValue(c, "active"); ok {
		active, err := strconv.ParseBool(v)
		if err == nil {
			in.Active = &active
		}
	}
	logo, err := optionalFormFile(c, "logo")
	if err != nil {
		return fail(c, err)
	}
	in.Logo = logo

	company, err := h.Tenancy.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		log.Error("Failed to update company", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Company updated", zap.String("id", company.ID))
	return respond(c, http.StatusOK, company, "company updated successfully")
}

// Deactivate soft-deletes the company.
func (h *CompanyHandler) Deactivate(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCompanyOperation("deactivate")

	company, err := h.Tenancy.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Error("Failed to deactivate company", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Company deactivated", zap.String("id", company.ID), zap.String("name", company.Name))
	return respond(c, http.StatusOK, company, "company deactivated successfully")
}

// GetByClientEmail returns the active company bound to a client email.
func (h *CompanyHandler) GetByClientEmail(c echo.Context) error {
	prometheus.RecordCompanyOperation("get_by_client_email")

	company, err := h.Tenancy.GetByClientEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, company, "company found successfully")
}

// VerifyClientEmail is the public minimal-disclosure lookup used before
// client account creation.
func (h *CompanyHandler) VerifyClientEmail(c echo.Context) error {
	prometheus.RecordCompanyOperation("verify_client_email")

	verified, err := h.Tenancy.VerifyClientEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, verified, "")
}

// ListCreatives lists the company's creatives with the usual filters.
func (h *CompanyHandler) ListCreatives(c echo.Context) error {
	prometheus.RecordCompanyOperation("list_creatives")

	creatives, err := h.Creatives.ListByCompany(c.Request().Context(), c.Param("id"), creativeFilterFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, creatives, "")
}

func creativeFilterFromQuery(c echo.Context) store.CreativeFilter {
	return store.CreativeFilter{
		CompanyID: c.QueryParam("company_id"),
		Status:    statusFromQuery(c.QueryParam("status")),
		Type:      typeFromQuery(c.QueryParam("type")),
	}
}
