// Package store defines the persistence contracts consumed by the services.
// The postgres subpackage is the production implementation; the memory
// subpackage backs the service tests.
package store

import (
	"context"

	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
)

// CreativeFilter narrows creative listings. Zero values mean "no filter".
type CreativeFilter struct {
	CompanyID string
	Status    model.CreativeStatus
	Type      model.CreativeType
}

// AccountStore persists accounts. Accounts are never hard-deleted.
type AccountStore interface {
	// CreateAccount inserts the account. A duplicate email yields a
	// Conflict error; the database unique index is the authoritative guard.
	CreateAccount(ctx context.Context, account *model.Account) error
	// AccountByEmail returns the account or a NotFound error.
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
	// AccountByID returns the account or a NotFound error.
	AccountByID(ctx context.Context, id string) (*model.Account, error)
}

// CompanyStore persists companies.
type CompanyStore interface {
	// CreateCompany inserts the company. Violating the active-name or
	// active-client-email uniqueness yields a Conflict error.
	CreateCompany(ctx context.Context, company *model.Company) error
	// SaveCompany persists the full company row. Uniqueness violations
	// yield a Conflict error.
	SaveCompany(ctx context.Context, company *model.Company) error
	// CompanyByID returns the company with its live creative count, or a
	// NotFound error. Inactive companies are returned.
	CompanyByID(ctx context.Context, id string) (*model.Company, error)
	// ActiveCompanyByName returns the active company with the given name,
	// or a NotFound error.
	ActiveCompanyByName(ctx context.Context, name string) (*model.Company, error)
	// ActiveCompanyByClientEmail returns the active company bound to the
	// given client email, or a NotFound error.
	ActiveCompanyByClientEmail(ctx context.Context, email string) (*model.Company, error)
	// ListCompanies returns companies ordered active-first then by creation
	// time descending, each annotated with its live creative count.
	ListCompanies(ctx context.Context, includeInactive bool) ([]model.Company, error)
	// CountCreatives counts non-deleted creatives owned by the company.
	CountCreatives(ctx context.Context, companyID string) (int64, error)
}

// CreativeStore persists creatives and their append-only children.
type CreativeStore interface {
	// CreateCreative inserts the creative with any child file rows.
	CreateCreative(ctx context.Context, creative *model.Creative) error
	// CreativeByID returns the creative with children preloaded, or a
	// NotFound error. Soft-deleted creatives are returned; callers decide
	// how a deleted row maps to their contract.
	CreativeByID(ctx context.Context, id string) (*model.Creative, error)
	// ListCreatives returns non-deleted creatives matching the filter,
	// ordered by creation time descending.
	ListCreatives(ctx context.Context, filter CreativeFilter) ([]model.Creative, error)
	// MutateCreative runs fn against the creative under a per-row write
	// lock and persists the result, so concurrent comment/version appends
	// serialize at the storage layer. Returns a NotFound error when the id
	// is unknown; fn errors abort the mutation with nothing written.
	MutateCreative(ctx context.Context, id string, fn func(*model.Creative) error) (*model.Creative, error)
}

// Store is the full persistence surface.
type Store interface {
	AccountStore
	CompanyStore
	CreativeStore
}
