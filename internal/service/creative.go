package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/objectstore"
)

const assetFolder = "aproovi"

// CreativeService is the creative lifecycle engine: creation, review status,
// append-only version and comment history, soft delete.
type CreativeService struct {
	Store  store.Store
	Assets objectstore.Store
	Clock  Clock
	Logger *zap.Logger
}

// NewCreativeService wires the lifecycle engine.
func NewCreativeService(s store.Store, assets objectstore.Store, log *zap.Logger) *CreativeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreativeService{Store: s, Assets: assets, Clock: SystemClock, Logger: log}
}

// CreateCreativeInput carries a single-asset creation request. CompanyID is
// accepted as-is; referential integrity is the storage layer's concern.
type CreateCreativeInput struct {
	File      FilePayload
	Title     string
	Caption   string
	Type      model.CreativeType
	CompanyID string
}

// CreateCarouselInput carries a multi-asset creation request. Files keep
// their upload order.
type CreateCarouselInput struct {
	Files     []FilePayload
	Title     string
	Caption   string
	Type      model.CreativeType
	CompanyID string
}

// Create uploads the asset and records the creative. Status always starts
// pending; an asset upload failure is fatal to the whole operation.
func (s *CreativeService) Create(ctx context.Context, actor *model.Account, in CreateCreativeInput) (*model.Creative, error) {
	if err := validateAsset(in.File); err != nil {
		return nil, err
	}

	obj, err := s.Assets.Store(ctx, in.File.Data, objectstore.Metadata{
		Folder:   assetFolder,
		FileName: in.File.Name,
	})
	if err != nil {
		return nil, apperr.Upstream("upload failed", "could not store the asset", err)
	}

	creativeType := in.Type
	if creativeType == "" {
		creativeType = model.TypePost
	}

	creative := s.newCreative(actor, obj.URL, in.File.Name, in.Title, in.Caption, creativeType, in.CompanyID)
	if err := s.Store.CreateCreative(ctx, creative); err != nil {
		return nil, err
	}
	return creative, nil
}

// CreateMultiAsset validates every file up front (fail-fast: nothing is
// stored when any file is invalid), uploads them concurrently, then records
// one creative whose primary asset is the first file. The full ordered file
// list is kept with 1-based order indices.
func (s *CreativeService) CreateMultiAsset(ctx context.Context, actor *model.Account, in CreateCarouselInput) (*model.Creative, error) {
	if len(in.Files) == 0 {
		return nil, apperr.Validation("no files sent", "select at least one file to upload")
	}
	if len(in.Files) > maxCarouselFiles {
		return nil, apperr.Validation("too many files", fmt.Sprintf("a maximum of %d files is allowed", maxCarouselFiles))
	}
	for _, f := range in.Files {
		if err := validateAsset(f); err != nil {
			return nil, err
		}
	}

	objects := make([]objectstore.Object, len(in.Files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range in.Files {
		i, f := i, f
		g.Go(func() error {
			obj, err := s.Assets.Store(gctx, f.Data, objectstore.Metadata{
				Folder:   assetFolder,
				FileName: f.Name,
			})
			if err != nil {
				return apperr.Upstream("upload failed", "could not store file "+f.Name, err)
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	creativeType := in.Type
	if creativeType == "" {
		creativeType = model.TypeCarousel
	}
	fileName := in.Files[0].Name
	if in.Title == "" {
		fileName = fmt.Sprintf("%s_%d_files", creativeType, len(in.Files))
	}

	creative := s.newCreative(actor, objects[0].URL, fileName, in.Title, in.Caption, creativeType, in.CompanyID)
	creative.Files = make([]model.CreativeFile, len(objects))
	for i, obj := range objects {
		creative.Files[i] = model.CreativeFile{
			CreativeID: creative.ID,
			Ord:        i + 1,
			URL:        obj.URL,
			FileName:   in.Files[i].Name,
		}
	}

	if err := s.Store.CreateCreative(ctx, creative); err != nil {
		return nil, err
	}
	return creative, nil
}

func (s *CreativeService) newCreative(actor *model.Account, url, fileName, title, caption string, t model.CreativeType, companyID string) *model.Creative {
	now := s.Clock.Now()
	creative := &model.Creative{
		ID:           uuid.NewString(),
		URL:          url,
		FileName:     fileName,
		Type:         t,
		Status:       model.StatusPending,
		UploadedByID: actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if title != "" {
		creative.Title = &title
		creative.FileName = title
	}
	if caption != "" {
		creative.Caption = &caption
	}
	if companyID != "" {
		creative.CompanyID = &companyID
	}
	return creative
}

// SetStatus moves the creative to any of the three review states. There is
// deliberately no restriction on the source state.
func (s *CreativeService) SetStatus(ctx context.Context, id string, status model.CreativeStatus) (*model.Creative, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid status", "status must be pending, approved or rejected")
	}
	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.NotFound("creative not found", "no creative with this id")
		}
		c.Status = status
		c.UpdatedAt = s.Clock.Now()
		return nil
	})
}

// AddVersion uploads a replacement asset and appends it to the version
// history. Version numbers start at 2 (the original upload is version 1) and
// a new version always sends the creative back to review.
func (s *CreativeService) AddVersion(ctx context.Context, id string, file FilePayload) (*model.Creative, error) {
	if err := validateAsset(file); err != nil {
		return nil, err
	}
	if err := s.requireAlive(ctx, id, false); err != nil {
		return nil, err
	}

	obj, err := s.Assets.Store(ctx, file.Data, objectstore.Metadata{
		Folder:   assetFolder,
		FileName: file.Name,
	})
	if err != nil {
		return nil, apperr.Upstream("upload failed", "could not store the asset", err)
	}

	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.NotFound("creative not found", "no creative with this id")
		}
		now := s.Clock.Now()
		c.Versions = append(c.Versions, model.CreativeVersion{
			CreativeID: c.ID,
			Version:    len(c.Versions) + 2,
			URL:        obj.URL,
			FileName:   file.Name,
			CreatedAt:  now,
		})
		// A new version always requires re-review.
		c.Status = model.StatusPending
		c.UpdatedAt = now
		return nil
	})
}

// UpdatePrimaryImage replaces the primary asset in place. It does not touch
// the status and does not append a version.
func (s *CreativeService) UpdatePrimaryImage(ctx context.Context, id string, file FilePayload) (*model.Creative, error) {
	if err := validateAsset(file); err != nil {
		return nil, err
	}
	if err := s.requireAlive(ctx, id, true); err != nil {
		return nil, err
	}

	obj, err := s.Assets.Store(ctx, file.Data, objectstore.Metadata{
		Folder:   assetFolder,
		FileName: file.Name,
	})
	if err != nil {
		return nil, apperr.Upstream("upload failed", "could not store the asset", err)
	}

	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.Conflict("creative deleted", "cannot change a creative that has been removed")
		}
		c.URL = obj.URL
		c.FileName = file.Name
		c.UpdatedAt = s.Clock.Now()
		return nil
	})
}

// AddComment appends to the comment history and mirrors the trimmed text
// into the legacy single-comment field.
func (s *CreativeService) AddComment(ctx context.Context, actor *model.Account, id, text string) (*model.Creative, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperr.Validation("empty comment", "the comment cannot be empty")
	}

	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.Conflict("creative deleted", "cannot comment on a creative that has been removed")
		}
		now := s.Clock.Now()
		c.Comments = append(c.Comments, model.CreativeComment{
			ID:         commentID(now.UnixMilli(), c.Comments),
			CreativeID: c.ID,
			Text:       trimmed,
			AuthorName: actor.Name,
			AuthorID:   actor.ID,
			CreatedAt:  now,
		})
		c.Comment = &trimmed
		c.UpdatedAt = now
		return nil
	})
}

// SetLegacyComment updates only the legacy single-comment field. Kept for
// readers of the old comment route.
func (s *CreativeService) SetLegacyComment(ctx context.Context, id, text string) (*model.Creative, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperr.Validation("empty comment", "the comment cannot be empty")
	}
	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.Conflict("creative deleted", "cannot comment on a creative that has been removed")
		}
		c.Comment = &trimmed
		c.UpdatedAt = s.Clock.Now()
		return nil
	})
}

// SoftDelete freezes the creative. It disappears from listings and refuses
// every further mutation.
func (s *CreativeService) SoftDelete(ctx context.Context, id string) (*model.Creative, error) {
	return s.Store.MutateCreative(ctx, id, func(c *model.Creative) error {
		if c.Deleted() {
			return apperr.Conflict("creative already deleted", "this creative has already been removed")
		}
		now := s.Clock.Now()
		c.DeletedAt = &now
		c.UpdatedAt = now
		return nil
	})
}

// List returns non-deleted creatives, newest first.
func (s *CreativeService) List(ctx context.Context, filter store.CreativeFilter) ([]model.Creative, error) {
	return s.Store.ListCreatives(ctx, filter)
}

// ListByCompany returns the company's non-deleted creatives. Unknown
// companies fail with NotFound.
func (s *CreativeService) ListByCompany(ctx context.Context, companyID string, filter store.CreativeFilter) ([]model.Creative, error) {
	if _, err := s.Store.CompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	filter.CompanyID = companyID
	return s.Store.ListCreatives(ctx, filter)
}

// GetByID returns the creative. Soft-deleted creatives are reported as
// not found.
func (s *CreativeService) GetByID(ctx context.Context, id string) (*model.Creative, error) {
	creative, err := s.Store.CreativeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if creative.Deleted() {
		return nil, apperr.NotFound("creative not found", "no creative with this id")
	}
	return creative, nil
}

// requireAlive checks existence before an upload so a failed precondition
// never leaves an orphaned object in the store. deletedIsConflict selects
// whether a soft-deleted creative maps to Conflict or NotFound.
func (s *CreativeService) requireAlive(ctx context.Context, id string, deletedIsConflict bool) error {
	creative, err := s.Store.CreativeByID(ctx, id)
	if err != nil {
		return err
	}
	if creative.Deleted() {
		if deletedIsConflict {
			return apperr.Conflict("creative deleted", "cannot change a creative that has been removed")
		}
		return apperr.NotFound("creative not found", "no creative with this id")
	}
	return nil
}

// commentID derives a unique, time-ordered comment id. When two comments
// land on the same millisecond the id is bumped past the previous one.
func commentID(unixMilli int64, existing []model.CreativeComment) string {
	id := unixMilli
	if n := len(existing); n > 0 {
		if last, err := strconv.ParseInt(existing[n-1].ID, 10, 64); err == nil && id <= last {
			id = last + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
