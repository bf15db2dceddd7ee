// Package postgres is the gorm-backed store. The database is the sole
// arbiter of consistency: uniqueness lives in partial unique indexes and
// per-creative mutations serialize on a row lock inside a transaction.
package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

const creativeCountExpr = "(SELECT count(*) FROM creatives WHERE creatives.company_id = companies.id AND creatives.deleted_at IS NULL)"

// Store implements store.Store on a gorm Postgres connection. The connection
// must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an initialized gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := s.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("account already exists", "this email is already registered")
	}
	return err
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var account model.Account
	err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account not found", "no account with this email")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) AccountByID(ctx context.Context, id string) (*model.Account, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var account model.Account
	err := s.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account not found", "no account with this id")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) CreateCompany(ctx context.Context, company *model.Company) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := s.db.WithContext(ctx).Create(company).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("company already exists", "an active company with this name or client email already exists")
	}
	return err
}

func (s *Store) SaveCompany(ctx context.Context, company *model.Company) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(company).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("company already exists", "an active company with this name or client email already exists")
	}
	return err
}

func (s *Store) CompanyByID(ctx context.Context, id string) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var company model.Company
	err := s.db.WithContext(ctx).
		Select("companies.*, "+creativeCountExpr+" AS creative_count").
		First(&company, "companies.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("company not found", "no company with this id")
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Store) ActiveCompanyByName(ctx context.Context, name string) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var company model.Company
	err := s.db.WithContext(ctx).
		Where("name = ? AND active", name).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("company not found", "no active company with this name")
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Store) ActiveCompanyByClientEmail(ctx context.Context, email string) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var company model.Company
	err := s.db.WithContext(ctx).
		Where("lower(client_email) = lower(?) AND active", email).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("company not found", "no active company is bound to this email")
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Store) ListCompanies(ctx context.Context, includeInactive bool) ([]model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).
		Model(&model.Company{}).
		Select("companies.*, " + creativeCountExpr + " AS creative_count").
		Order("active DESC, created_at DESC")
	if !includeInactive {
		query = query.Where("active")
	}

	var companies []model.Company
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *Store) CountCreatives(ctx context.Context, companyID string) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Creative{}).
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Count(&count).Error
	return count, err
}

func (s *Store) CreateCreative(ctx context.Context, creative *model.Creative) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return s.db.WithContext(ctx).Create(creative).Error
}

func (s *Store) CreativeByID(ctx context.Context, id string) (*model.Creative, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var creative model.Creative
	err := s.withChildren(s.db.WithContext(ctx)).First(&creative, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("creative not found", "no creative with this id")
	}
	if err != nil {
		return nil, err
	}
	return &creative, nil
}

func (s *Store) ListCreatives(ctx context.Context, filter store.CreativeFilter) ([]model.Creative, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.withChildren(s.db.WithContext(ctx)).
		Where("deleted_at IS NULL").
		Order("created_at DESC")
	if filter.CompanyID != "" {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var creatives []model.Creative
	if err := query.Find(&creatives).Error; err != nil {
		return nil, err
	}
	return creatives, nil
}

// MutateCreative locks the creative row for the duration of fn, then persists
// the scalar fields and inserts any child rows fn appended. The row lock is
// what serializes concurrent version/comment appends.
func (s *Store) MutateCreative(ctx context.Context, id string, fn func(*model.Creative) error) (*model.Creative, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var out *model.Creative
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var creative model.Creative
		err := s.withChildren(tx).
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "creatives"}}).
			First(&creative, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("creative not found", "no creative with this id")
		}
		if err != nil {
			return err
		}

		preVersions := len(creative.Versions)
		preComments := len(creative.Comments)

		if err := fn(&creative); err != nil {
			return err
		}

		if added := creative.Versions[preVersions:]; len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
		}
		if added := creative.Comments[preComments:]; len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(&creative).Error; err != nil {
			return err
		}

		out = &creative
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Versions", func(db *gorm.DB) *gorm.DB { return db.Order("version ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("ord ASC") })
}
