package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store/memory"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/jwtutil"
)

func newAuthFixture() (*AuthService, *memory.Store) {
	st := memory.New()
	svc := NewAuthService(st)
	svc.Clock = newStepClock()
	return svc, st
}

func seedCompany(t *testing.T, st *memory.Store, name, clientEmail string) *model.Company {
	t.Helper()
	company := &model.Company{
		ID:          "company-" + name,
		Name:        name,
		ClientEmail: clientEmail,
		Active:      true,
	}
	require.NoError(t, st.CreateCompany(context.Background(), company))
	return company
}

func TestRegisterDefaultsToAgency(t *testing.T) {
	svc, _ := newAuthFixture()

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "ana@agency.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleAgency, session.Account.Role)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.Account.PasswordHash)
	assert.NotEqual(t, "secret1", session.Account.PasswordHash)

	claims, err := jwtutil.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.AccountID)
	assert.Equal(t, "ana@agency.com", claims.Email)
	assert.Equal(t, string(model.RoleAgency), claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.com", Password: "secret1"},
		{Name: "Ana", Email: "", Password: "secret1"},
		{Name: "Ana", Email: "a@b.com", Password: ""},
		{Name: "Ana", Email: "a@b.com", Password: "short"},
		{Name: "Ana", Email: "not-an-email", Password: "secret1"},
		{Name: "Ana", Email: "a@b.com", Password: "secret1", Role: "admin"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		require.Error(t, err, "input %+v", in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "Other", Email: "ana@agency.com", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegisterClientNeedsCompanyBinding(t *testing.T) {
	svc, st := newAuthFixture()
	seedCompany(t, st, "Acme", "a@b.com")

	// Bound email registers fine.
	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Client",
		Email:    "a@b.com",
		Password: "secret1",
		Role:     model.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, session.Account.Role)

	// An email no active company points at is refused.
	_, err = svc.Register(context.Background(), RegisterInput{
		Name:     "Stranger",
		Email:    "x@y.com",
		Password: "secret1",
		Role:     model.RoleClient,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestLoginHappyPath(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), LoginInput{Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@agency.com", session.Account.Email)
	assert.NotEmpty(t, session.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)

	// Unknown email and wrong password fail the same way.
	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@agency.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@agency.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}

func TestLoginRoleMismatch(t *testing.T) {
	svc, st := newAuthFixture()
	seedCompany(t, st, "Acme", "client@acme.com")

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterInput{
		Name: "Client", Email: "client@acme.com", Password: "secret1", Role: model.RoleClient,
	})
	require.NoError(t, err)

	// Agency account logging in as client.
	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@agency.com", Password: "secret1", Role: model.RoleClient})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	assert.Contains(t, err.Error(), "try logging in as an agency")

	// Client account logging in as agency.
	_, err = svc.Login(context.Background(), LoginInput{Email: "client@acme.com", Password: "secret1", Role: model.RoleAgency})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	assert.Contains(t, err.Error(), "try logging in as a client")
}

func TestLoginClientLosesAccessWhenCompanyDeactivated(t *testing.T) {
	svc, st := newAuthFixture()
	company := seedCompany(t, st, "Acme", "client@acme.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Client", Email: "client@acme.com", Password: "secret1", Role: model.RoleClient,
	})
	require.NoError(t, err)

	company.Active = false
	require.NoError(t, st.SaveCompany(context.Background(), company))

	_, err = svc.Login(context.Background(), LoginInput{Email: "client@acme.com", Password: "secret1", Role: model.RoleClient})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthFixture()

	session, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@agency.com", Password: "secret1"})
	require.NoError(t, err)

	account, err := svc.Authenticate(context.Background(), session.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Account.Email, account.Email)

	_, err = svc.Authenticate(context.Background(), "no-such-account")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}
