package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/jwtutil"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService is the access gate: registration and login with the
// intended-role check, plus the client-capability check against the tenancy
// registry. Tokens come from the credential authority (jwtutil + bcrypt).
type AuthService struct {
	Store store.Store
	Clock Clock
}

// NewAuthService wires the access gate.
func NewAuthService(s store.Store) *AuthService {
	return &AuthService{Store: s, Clock: SystemClock}
}

// RegisterInput carries a registration request. Role defaults to agency.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// LoginInput carries a login attempt under an intended role.
type LoginInput struct {
	Email    string
	Password string
	Role     model.Role
}

// Session is a logged-in account plus its bearer token.
type Session struct {
	Account *model.Account
	Token   string
}

// Register creates an account. Client-role registration is gated by the
// capability email: an active company must be bound to the address.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if in.Role == "" {
		in.Role = model.RoleAgency
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("incomplete data", "name, email and password are required")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Validation("password too short", "the password must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("invalid role", "role must be agency or client")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperr.Validation("invalid email", "please provide a valid email address")
	}

	// Fast-path duplicate check; the unique index is the real guard.
	if _, err := s.Store.AccountByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("account already exists", "this email is already registered")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	if in.Role == model.RoleClient {
		if err := s.requireClientCapability(ctx, in.Email); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Upstream("registration failed", "could not hash the password", err)
	}

	now := s.Clock.Now()
	account := &model.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, apperr.Upstream("registration failed", "could not issue a token", err)
	}
	return &Session{Account: account, Token: token}, nil
}

// Login checks credentials and the intended role. The stored role is fixed
// at registration; attempting the other role fails with a role-specific hint.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Role == "" {
		in.Role = model.RoleAgency
	}
	if in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("incomplete data", "email and password are required")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("invalid role", "role must be agency or client")
	}

	invalidCredentials := apperr.Unauthenticated("invalid credentials", "email or password is incorrect")

	account, err := s.Store.AccountByEmail(ctx, in.Email)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, invalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return nil, invalidCredentials
	}

	if account.Role != in.Role {
		if in.Role == model.RoleClient {
			return nil, apperr.Forbidden("wrong account type", "this account is not a client account, try logging in as an agency")
		}
		return nil, apperr.Forbidden("wrong account type", "this account is not an agency account, try logging in as a client")
	}

	if in.Role == model.RoleClient {
		if err := s.requireClientCapability(ctx, account.Email); err != nil {
			return nil, err
		}
	}

	token, err := jwtutil.GenerateToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, apperr.Upstream("login failed", "could not issue a token", err)
	}
	return &Session{Account: account, Token: token}, nil
}

// Authenticate resolves a validated token's account id to the account.
// Used by the HTTP middleware after jwtutil verified the token.
func (s *AuthService) Authenticate(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.Store.AccountByID(ctx, accountID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.Unauthenticated("invalid token", "the token does not resolve to an account")
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// requireClientCapability succeeds only when an active company is bound to
// the email.
func (s *AuthService) requireClientCapability(ctx context.Context, email string) error {
	_, err := s.Store.ActiveCompanyByClientEmail(ctx, email)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return apperr.Forbidden("email not authorized", "this email is not registered with any company, contact your agency to request access")
	}
	return err
}
