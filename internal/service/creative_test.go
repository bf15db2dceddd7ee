package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store/memory"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/objectstore"
)

func newCreativeFixture() (*CreativeService, *memory.Store, *objectstore.Fake, *model.Account) {
	st := memory.New()
	assets := objectstore.NewFake()
	svc := NewCreativeService(st, assets, nil)
	svc.Clock = newStepClock()
	return svc, st, assets, agencyAccount("Ana Reviewer")
}

func mustCreate(t *testing.T, svc *CreativeService, actor *model.Account, name string) *model.Creative {
	t.Helper()
	creative, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File: FilePayload{Name: name, Data: pngBytes()},
	})
	require.NoError(t, err)
	return creative
}

func TestCreateStartsPending(t *testing.T) {
	svc, _, assets, actor := newCreativeFixture()

	creative, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File:    FilePayload{Name: "banner.png", Data: pngBytes()},
		Caption: "spring campaign",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, creative.Status)
	assert.Equal(t, model.TypePost, creative.Type)
	assert.Equal(t, "banner.png", creative.FileName)
	assert.Equal(t, actor.ID, creative.UploadedByID)
	require.NotNil(t, creative.Caption)
	assert.Equal(t, "spring campaign", *creative.Caption)
	assert.Len(t, assets.Uploads(), 1)
}

func TestCreateTitleOverridesFileName(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()

	creative, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File:  FilePayload{Name: "raw_upload.png", Data: pngBytes()},
		Title: "Spring Banner",
	})
	require.NoError(t, err)

	assert.Equal(t, "Spring Banner", creative.FileName)
	require.NotNil(t, creative.Title)
	assert.Equal(t, "Spring Banner", *creative.Title)
}

func TestCreateRejectsNonMediaFile(t *testing.T) {
	svc, _, assets, actor := newCreativeFixture()

	_, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File: FilePayload{Name: "notes.txt", Data: []byte("plain text, not media")},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, assets.Uploads())
}

func TestCreateUploadFailureIsUpstream(t *testing.T) {
	svc, _, assets, actor := newCreativeFixture()
	assets.Err = fmt.Errorf("bucket unavailable")

	_, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File: FilePayload{Name: "banner.png", Data: pngBytes()},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestSetStatusAnyTransition(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	for _, status := range []model.CreativeStatus{
		model.StatusApproved,
		model.StatusRejected,
		model.StatusApproved,
		model.StatusPending,
	} {
		updated, err := svc.SetStatus(context.Background(), creative.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	_, err := svc.SetStatus(context.Background(), creative.ID, "archived")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAddVersionNumbersFromTwo(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	var last *model.Creative
	for i := 0; i < 3; i++ {
		var err error
		last, err = svc.AddVersion(context.Background(), creative.ID, FilePayload{
			Name: fmt.Sprintf("banner_v%d.png", i+2),
			Data: pngBytes(),
		})
		require.NoError(t, err)
	}

	require.Len(t, last.Versions, 3)
	for i, v := range last.Versions {
		assert.Equal(t, i+2, v.Version)
	}
}

func TestAddVersionForcesReview(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	_, err := svc.SetStatus(context.Background(), creative.ID, model.StatusApproved)
	require.NoError(t, err)

	updated, err := svc.AddVersion(context.Background(), creative.ID, FilePayload{Name: "banner_v2.png", Data: pngBytes()})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, updated.Status)
}

func TestUpdatePrimaryImageKeepsStatus(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	_, err := svc.SetStatus(context.Background(), creative.ID, model.StatusApproved)
	require.NoError(t, err)

	updated, err := svc.UpdatePrimaryImage(context.Background(), creative.ID, FilePayload{Name: "fixed.png", Data: pngBytes()})
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.Equal(t, "fixed.png", updated.FileName)
	assert.NotEqual(t, creative.URL, updated.URL)
	assert.Empty(t, updated.Versions)
}

func TestAddCommentAppendsAndMirrors(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	updated, err := svc.AddComment(context.Background(), actor, creative.ID, "  please brighten the logo  ")
	require.NoError(t, err)

	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "please brighten the logo", updated.Comments[0].Text)
	assert.Equal(t, actor.Name, updated.Comments[0].AuthorName)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "please brighten the logo", *updated.Comment)

	updated, err = svc.AddComment(context.Background(), actor, creative.ID, "second pass looks good")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "second pass looks good", *updated.Comment)
	// Time-derived ids stay strictly increasing.
	assert.Less(t, updated.Comments[0].ID, updated.Comments[1].ID)
}

func TestAddCommentRejectsBlank(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	for _, text := range []string{"", "   "} {
		_, err := svc.AddComment(context.Background(), actor, creative.ID, text)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestCommentIDCollisionBumps(t *testing.T) {
	existing := []model.CreativeComment{{ID: "1750000000000"}}

	assert.Equal(t, "1750000000001", commentID(1750000000000, existing))
	assert.Equal(t, "1750000000001", commentID(1749999999999, existing))
	assert.Equal(t, "1750000000005", commentID(1750000000005, existing))
	assert.Equal(t, "1750000000000", commentID(1750000000000, nil))
}

func TestSoftDeleteFreezesCreative(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()
	creative := mustCreate(t, svc, actor, "banner.png")

	deleted, err := svc.SoftDelete(context.Background(), creative.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	_, err = svc.GetByID(context.Background(), creative.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	list, err := svc.List(context.Background(), store.CreativeFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.SoftDelete(context.Background(), creative.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.SetStatus(context.Background(), creative.ID, model.StatusApproved)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.AddVersion(context.Background(), creative.ID, FilePayload{Name: "v2.png", Data: pngBytes()})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.UpdatePrimaryImage(context.Background(), creative.ID, FilePayload{Name: "fix.png", Data: pngBytes()})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.AddComment(context.Background(), actor, creative.ID, "too late")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateMultiAssetOrdering(t *testing.T) {
	svc, _, assets, actor := newCreativeFixture()

	files := []FilePayload{
		{Name: "slide_1.png", Data: pngBytes()},
		{Name: "slide_2.png", Data: pngBytes()},
		{Name: "slide_3.png", Data: pngBytes()},
	}
	creative, err := svc.CreateMultiAsset(context.Background(), actor, CreateCarouselInput{Files: files})
	require.NoError(t, err)

	assert.Equal(t, model.TypeCarousel, creative.Type)
	assert.Equal(t, model.StatusPending, creative.Status)
	assert.Equal(t, "carousel_3_files", creative.FileName)
	require.Len(t, creative.Files, 3)
	for i, f := range creative.Files {
		assert.Equal(t, i+1, f.Ord)
		assert.Equal(t, files[i].Name, f.FileName)
	}
	assert.Equal(t, creative.Files[0].URL, creative.URL)
	assert.Len(t, assets.Uploads(), 3)
}

func TestCreateMultiAssetFailFast(t *testing.T) {
	svc, _, assets, actor := newCreativeFixture()

	_, err := svc.CreateMultiAsset(context.Background(), actor, CreateCarouselInput{
		Files: []FilePayload{
			{Name: "slide_1.png", Data: pngBytes()},
			{Name: "notes.txt", Data: []byte("not a media file")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	// Nothing is stored when any file fails validation.
	assert.Empty(t, assets.Uploads())
}

func TestCreateMultiAssetLimits(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()

	_, err := svc.CreateMultiAsset(context.Background(), actor, CreateCarouselInput{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	files := make([]FilePayload, maxCarouselFiles+1)
	for i := range files {
		files[i] = FilePayload{Name: fmt.Sprintf("slide_%d.png", i+1), Data: pngBytes()}
	}
	_, err = svc.CreateMultiAsset(context.Background(), actor, CreateCarouselInput{Files: files})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListByCompanyRequiresCompany(t *testing.T) {
	svc, st, _, actor := newCreativeFixture()

	_, err := svc.ListByCompany(context.Background(), "missing-id", store.CreativeFilter{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	company := &model.Company{ID: "c-1", Name: "Acme", ClientEmail: "client@acme.com", Active: true}
	require.NoError(t, st.CreateCompany(context.Background(), company))

	companyID := company.ID
	creative, err := svc.Create(context.Background(), actor, CreateCreativeInput{
		File:      FilePayload{Name: "banner.png", Data: pngBytes()},
		CompanyID: companyID,
	})
	require.NoError(t, err)
	mustCreate(t, svc, actor, "unlinked.png")

	list, err := svc.ListByCompany(context.Background(), companyID, store.CreativeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, creative.ID, list[0].ID)
}

func TestListFilters(t *testing.T) {
	svc, _, _, actor := newCreativeFixture()

	a := mustCreate(t, svc, actor, "a.png")
	b := mustCreate(t, svc, actor, "b.png")
	_, err := svc.SetStatus(context.Background(), b.ID, model.StatusApproved)
	require.NoError(t, err)

	pending, err := svc.List(context.Background(), store.CreativeFilter{Status: model.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	approved, err := svc.List(context.Background(), store.CreativeFilter{Status: model.StatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, b.ID, approved[0].ID)

	// Newest first.
	all, err := svc.List(context.Background(), store.CreativeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}
