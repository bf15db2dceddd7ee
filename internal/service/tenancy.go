package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/objectstore"
)

const logoFolder = "companies/logos"

// TenancyService is the company (tenant) registry. Logo uploads are
// best-effort: a failed store call never fails the company operation.
type TenancyService struct {
	Store  store.Store
	Assets objectstore.Store
	Clock  Clock
	Logger *zap.Logger
}

// NewTenancyService wires the tenancy registry.
func NewTenancyService(s store.Store, assets objectstore.Store, log *zap.Logger) *TenancyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TenancyService{Store: s, Assets: assets, Clock: SystemClock, Logger: log}
}

// CreateCompanyInput carries a company creation request.
type CreateCompanyInput struct {
	Name        string
	Description string
	ClientEmail string
	Logo        *FilePayload
	CreatorID   string
}

// UpdateCompanyInput is a partial update; nil fields are left untouched.
type UpdateCompanyInput struct {
	Name        *string
	Description *string
	ClientEmail *string
	Active      *bool
	Logo        *FilePayload
}

// VerifiedClientEmail is the minimal-disclosure result of the public email
// verification endpoint.
type VerifiedClientEmail struct {
	Company string `json:"company"`
	Email   string `json:"email"`
}

// Create registers a new company owned by the creator account.
func (s *TenancyService) Create(ctx context.Context, in CreateCompanyInput) (*model.Company, error) {
	name := strings.TrimSpace(in.Name)
	clientEmail := strings.TrimSpace(in.ClientEmail)

	if name == "" {
		return nil, apperr.Validation("name required", "the company name is required")
	}
	if clientEmail == "" {
		return nil, apperr.Validation("client email required", "the client email is required")
	}
	if !emailPattern.MatchString(clientEmail) {
		return nil, apperr.Validation("invalid email", "please provide a valid email address")
	}

	// Fast-path duplicate check; the partial unique index is the guard.
	if _, err := s.Store.ActiveCompanyByName(ctx, name); err == nil {
		return nil, apperr.Conflict("company already exists", "an active company with this name already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	logoURL, err := s.uploadLogo(ctx, in.Logo)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	company := &model.Company{
		ID:          uuid.NewString(),
		Name:        name,
		ClientEmail: clientEmail,
		LogoURL:     logoURL,
		Active:      true,
		CreatedByID: in.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		company.Description = &desc
	}

	if err := s.Store.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Update applies a partial update to the company.
func (s *TenancyService) Update(ctx context.Context, id string, in UpdateCompanyInput) (*model.Company, error) {
	company, err := s.Store.CompanyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name required", "the company name cannot be empty")
		}
		if name != company.Name {
			if other, err := s.Store.ActiveCompanyByName(ctx, name); err == nil && other.ID != id {
				return nil, apperr.Conflict("name already in use", "another active company already has this name")
			} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
				return nil, err
			}
			company.Name = name
		}
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			company.Description = nil
		} else {
			company.Description = &desc
		}
	}
	if in.ClientEmail != nil {
		email := strings.TrimSpace(*in.ClientEmail)
		if !emailPattern.MatchString(email) {
			return nil, apperr.Validation("invalid email", "please provide a valid email address")
		}
		company.ClientEmail = email
	}
	if in.Active != nil {
		company.Active = *in.Active
	}

	// Logo replacement is best-effort, keeping the current logo on failure.
	if logoURL, err := s.uploadLogo(ctx, in.Logo); err != nil {
		return nil, err
	} else if logoURL != nil {
		company.LogoURL = logoURL
	}

	company.UpdatedAt = s.Clock.Now()
	if err := s.Store.SaveCompany(ctx, company); err != nil {
		return nil, err
	}
	company.CreativeCount, err = s.Store.CountCreatives(ctx, id)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Deactivate soft-deletes the company. It must be active and own no
// non-deleted creatives.
func (s *TenancyService) Deactivate(ctx context.Context, id string) (*model.Company, error) {
	company, err := s.Store.CompanyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, apperr.Conflict("company already inactive", "this company has already been deactivated")
	}
	if company.CreativeCount > 0 {
		return nil, apperr.Conflict("company has linked creatives", "move or remove the company's creatives before deactivating it")
	}

	company.Active = false
	company.UpdatedAt = s.Clock.Now()
	if err := s.Store.SaveCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// List returns companies, active first then newest first, annotated with
// their live creative counts.
func (s *TenancyService) List(ctx context.Context, includeInactive bool) ([]model.Company, error) {
	return s.Store.ListCompanies(ctx, includeInactive)
}

// GetByID returns the company regardless of active state.
func (s *TenancyService) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return s.Store.CompanyByID(ctx, id)
}

// GetByClientEmail returns the active company bound to the email.
func (s *TenancyService) GetByClientEmail(ctx context.Context, email string) (*model.Company, error) {
	if email == "" {
		return nil, apperr.Validation("email required", "the client email is required")
	}
	return s.Store.ActiveCompanyByClientEmail(ctx, email)
}

// VerifyClientEmail is the public pre-registration lookup. It discloses only
// the company name and the email itself.
func (s *TenancyService) VerifyClientEmail(ctx context.Context, email string) (*VerifiedClientEmail, error) {
	if email == "" {
		return nil, apperr.Validation("email required", "the client email is required")
	}
	company, err := s.Store.ActiveCompanyByClientEmail(ctx, email)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.NotFound("email not authorized", "this email is not registered with any company")
	}
	if err != nil {
		return nil, err
	}
	return &VerifiedClientEmail{Company: company.Name, Email: company.ClientEmail}, nil
}

// uploadLogo validates and stores a logo. Store failures are logged and
// swallowed (nil URL); validation failures are returned to the caller.
func (s *TenancyService) uploadLogo(ctx context.Context, logo *FilePayload) (*string, error) {
	if logo == nil {
		return nil, nil
	}
	if err := validateLogo(*logo); err != nil {
		return nil, err
	}
	obj, err := s.Assets.Store(ctx, logo.Data, objectstore.Metadata{
		Folder:   logoFolder,
		FileName: logo.Name,
	})
	if err != nil {
		s.Logger.Warn("logo upload failed, proceeding without logo",
			zap.String("file", logo.Name),
			zap.Error(err))
		return nil, nil
	}
	return &obj.URL, nil
}
