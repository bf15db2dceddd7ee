// Package memory is an in-memory store implementation used by the service
// tests. It mirrors the contracts of the postgres store, including the
// uniqueness rules the database enforces.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
)

// Store holds all entities behind a single mutex. Mutations on a creative's
// child lists run under the lock, which stands in for the per-row transaction
// the postgres store uses.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]*model.Account
	companies map[string]*model.Company
	creatives map[string]*model.Creative
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:  make(map[string]*model.Account),
		companies: make(map[string]*model.Company),
		creatives: make(map[string]*model.Creative),
	}
}

func (s *Store) CreateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return apperr.Conflict("account already exists", "this email is already registered")
		}
	}
	cp := *account
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *Store) AccountByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("account not found", "no account with this email")
}

func (s *Store) AccountByID(_ context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, apperr.NotFound("account not found", "no account with this id")
	}
	cp := *a
	return &cp, nil
}

func (s *Store) CreateCompany(_ context.Context, company *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCompanyUniqueness(company); err != nil {
		return err
	}
	cp := cloneCompany(company)
	s.companies[cp.ID] = cp
	return nil
}

func (s *Store) SaveCompany(_ context.Context, company *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[company.ID]; !ok {
		return apperr.NotFound("company not found", "no company with this id")
	}
	if err := s.checkCompanyUniqueness(company); err != nil {
		return err
	}
	cp := cloneCompany(company)
	s.companies[cp.ID] = cp
	return nil
}

// checkCompanyUniqueness emulates the partial unique indexes on active
// company name and client email. Caller holds the lock.
func (s *Store) checkCompanyUniqueness(company *model.Company) error {
	if !company.Active {
		return nil
	}
	for _, c := range s.companies {
		if c.ID == company.ID || !c.Active {
			continue
		}
		if c.Name == company.Name {
			return apperr.Conflict("company already exists", "an active company with this name already exists")
		}
		if strings.EqualFold(c.ClientEmail, company.ClientEmail) {
			return apperr.Conflict("client email in use", "an active company is already bound to this client email")
		}
	}
	return nil
}

func (s *Store) CompanyByID(_ context.Context, id string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, apperr.NotFound("company not found", "no company with this id")
	}
	cp := cloneCompany(c)
	cp.CreativeCount = s.countCreativesLocked(id)
	return cp, nil
}

func (s *Store) ActiveCompanyByName(_ context.Context, name string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.companies {
		if c.Active && c.Name == name {
			return cloneCompany(c), nil
		}
	}
	return nil, apperr.NotFound("company not found", "no active company with this name")
}

func (s *Store) ActiveCompanyByClientEmail(_ context.Context, email string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.companies {
		if c.Active && strings.EqualFold(c.ClientEmail, email) {
			return cloneCompany(c), nil
		}
	}
	return nil, apperr.NotFound("company not found", "no active company is bound to this email")
}

func (s *Store) ListCompanies(_ context.Context, includeInactive bool) ([]model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if !includeInactive && !c.Active {
			continue
		}
		cp := cloneCompany(c)
		cp.CreativeCount = s.countCreativesLocked(c.ID)
		out = append(out, *cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CountCreatives(_ context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCreativesLocked(companyID), nil
}

func (s *Store) countCreativesLocked(companyID string) int64 {
	var n int64
	for _, c := range s.creatives {
		if c.CompanyID != nil && *c.CompanyID == companyID && c.DeletedAt == nil {
			n++
		}
	}
	return n
}

func (s *Store) CreateCreative(_ context.Context, creative *model.Creative) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creatives[creative.ID] = cloneCreative(creative)
	return nil
}

func (s *Store) CreativeByID(_ context.Context, id string) (*model.Creative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creatives[id]
	if !ok {
		return nil, apperr.NotFound("creative not found", "no creative with this id")
	}
	return cloneCreative(c), nil
}

func (s *Store) ListCreatives(_ context.Context, filter store.CreativeFilter) ([]model.Creative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Creative, 0, len(s.creatives))
	for _, c := range s.creatives {
		if c.DeletedAt != nil {
			continue
		}
		if filter.CompanyID != "" && (c.CompanyID == nil || *c.CompanyID != filter.CompanyID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		out = append(out, *cloneCreative(c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) MutateCreative(_ context.Context, id string, fn func(*model.Creative) error) (*model.Creative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creatives[id]
	if !ok {
		return nil, apperr.NotFound("creative not found", "no creative with this id")
	}
	cp := cloneCreative(c)
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.creatives[id] = cloneCreative(cp)
	return cp, nil
}

func cloneCompany(c *model.Company) *model.Company {
	cp := *c
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	if c.LogoURL != nil {
		l := *c.LogoURL
		cp.LogoURL = &l
	}
	return &cp
}

func cloneCreative(c *model.Creative) *model.Creative {
	cp := *c
	if c.Title != nil {
		v := *c.Title
		cp.Title = &v
	}
	if c.Caption != nil {
		v := *c.Caption
		cp.Caption = &v
	}
	if c.Comment != nil {
		v := *c.Comment
		cp.Comment = &v
	}
	if c.CompanyID != nil {
		v := *c.CompanyID
		cp.CompanyID = &v
	}
	if c.DeletedAt != nil {
		v := *c.DeletedAt
		cp.DeletedAt = &v
	}
	cp.Versions = append([]model.CreativeVersion(nil), c.Versions...)
	cp.Comments = append([]model.CreativeComment(nil), c.Comments...)
	cp.Files = append([]model.CreativeFile(nil), c.Files...)
	return &cp
}
