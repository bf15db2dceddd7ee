package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
)

func seedCreative(t *testing.T, s *Store, id string, createdAt time.Time) *model.Creative {
	t.Helper()
	c := &model.Creative{
		ID:        id,
		URL:       "https://assets.test/" + id,
		FileName:  id + ".png",
		Type:      model.TypePost,
		Status:    model.StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, s.CreateCreative(context.Background(), c))
	return c
}

func TestActiveCompanyUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateCompany(ctx, &model.Company{
		ID: "c1", Name: "Acme", ClientEmail: "client@acme.com", Active: true,
	}))

	err := s.CreateCompany(ctx, &model.Company{
		ID: "c2", Name: "Acme", ClientEmail: "other@acme.com", Active: true,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	err = s.CreateCompany(ctx, &model.Company{
		ID: "c3", Name: "Globex", ClientEmail: "Client@Acme.com", Active: true,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Inactive rows are outside the uniqueness rule.
	require.NoError(t, s.CreateCompany(ctx, &model.Company{
		ID: "c4", Name: "Acme", ClientEmail: "client@acme.com", Active: false,
	}))
}

func TestMutateCreativeDiscardsOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedCreative(t, s, "cr1", time.Now())

	_, err := s.MutateCreative(ctx, "cr1", func(c *model.Creative) error {
		c.Status = model.StatusApproved
		c.Comments = append(c.Comments, model.CreativeComment{ID: "1", CreativeID: c.ID, Text: "x"})
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	c, err := s.CreativeByID(ctx, "cr1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, c.Status)
	assert.Empty(t, c.Comments)
}

func TestMutateCreativeCopiesAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedCreative(t, s, "cr1", time.Now())

	got, err := s.MutateCreative(ctx, "cr1", func(c *model.Creative) error {
		c.Comments = append(c.Comments, model.CreativeComment{ID: "1", CreativeID: c.ID, Text: "first"})
		return nil
	})
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store.
	got.Comments[0].Text = "tampered"
	c, err := s.CreativeByID(ctx, "cr1")
	require.NoError(t, err)
	require.Len(t, c.Comments, 1)
	assert.Equal(t, "first", c.Comments[0].Text)
}

func TestListCreativesFilterAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	older := seedCreative(t, s, "older", base)
	newer := seedCreative(t, s, "newer", base.Add(time.Minute))
	gone := seedCreative(t, s, "gone", base.Add(2*time.Minute))

	_, err := s.MutateCreative(ctx, gone.ID, func(c *model.Creative) error {
		now := base.Add(3 * time.Minute)
		c.DeletedAt = &now
		return nil
	})
	require.NoError(t, err)

	list, err := s.ListCreatives(ctx, store.CreativeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	_, err = s.MutateCreative(ctx, newer.ID, func(c *model.Creative) error {
		c.Status = model.StatusApproved
		return nil
	})
	require.NoError(t, err)

	approved, err := s.ListCreatives(ctx, store.CreativeFilter{Status: model.StatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, newer.ID, approved[0].ID)
}

func TestCountCreativesSkipsDeleted(t *testing.T) {
	s := New()
	ctx := context.Background()
	companyID := "co1"

	require.NoError(t, s.CreateCompany(ctx, &model.Company{
		ID: companyID, Name: "Acme", ClientEmail: "client@acme.com", Active: true,
	}))

	for i, id := range []string{"a", "b"} {
		c := seedCreative(t, s, id, time.Now().Add(time.Duration(i)*time.Second))
		_, err := s.MutateCreative(ctx, c.ID, func(c *model.Creative) error {
			cid := companyID
			c.CompanyID = &cid
			return nil
		})
		require.NoError(t, err)
	}

	n, err := s.CountCreatives(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.MutateCreative(ctx, "a", func(c *model.Creative) error {
		now := time.Now()
		c.DeletedAt = &now
		return nil
	})
	require.NoError(t, err)

	n, err = s.CountCreatives(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	company, err := s.CompanyByID(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), company.CreativeCount)
}
