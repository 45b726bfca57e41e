package auth

import (
	"context"
	"errors"

	"github.com/talentgrid/ctms/pkg/errx"
	"github.com/talentgrid/ctms/pkg/iam/user"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/pkg/validatex"
)

type Service struct {
	users     user.Repository
	tokens    *TokenService
	passwords *PasswordService
}

func NewService(users user.Repository, tokens *TokenService, passwords *PasswordService) *Service {
	return &Service{users: users, tokens: tokens, passwords: passwords}
}

// Bootstrap creates the first admin account. It only works once; every later
// account is created by an admin through RegisterHR.
func (s *Service) Bootstrap(ctx context.Context, req BootstrapRequest) (*UserResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	count, err := s.users.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyBootstrapped()
	}

	return s.createUser(ctx, req.FirstName, req.LastName, req.Email, req.Password, user.RoleAdmin)
}

// RegisterHR creates an HR account. Callers are admin-gated by middleware.
func (s *Service) RegisterHR(ctx context.Context, req RegisterHRRequest) (*UserResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.FirstName, req.LastName, req.Email, req.Password, user.RoleHR)
}

func (s *Service) createUser(ctx context.Context, firstName, lastName, email, password string, role user.Role) (*UserResponse, error) {
	addr := kernel.NewEmail(email)

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	u := user.New(firstName, lastName, addr, hash, role)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	logx.Infof("user created: id=%s role=%s", u.ID.String(), u.Role.String())
	resp := ToUserResponse(u)
	return &resp, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, kernel.NewEmail(req.Email))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, ErrInvalidCredentials()
		}
		return nil, err
	}

	if !s.passwords.Compare(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials()
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: ToUserResponse(u)}, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, authCtx *AuthContext) error {
	return s.tokens.RevokeToken(ctx, authCtx)
}

func (s *Service) Me(ctx context.Context, authCtx *AuthContext) (*UserResponse, error) {
	u, err := s.users.FindByID(ctx, authCtx.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

func (s *Service) ListHRUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListByRole(ctx, user.RoleHR)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out, nil
}

// DeleteHRUser removes an HR account. Admin accounts cannot be deleted this
// way.
func (s *Service) DeleteHRUser(ctx context.Context, id kernel.UserID) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return user.ErrCannotDeleteAdmin()
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logx.Infof("hr user deleted: id=%s", id.String())
	return nil
}

// FindUser resolves a user by id for other services that need names and
// emails, notably interview scheduling.
func (s *Service) FindUser(ctx context.Context, id kernel.UserID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		var appErr *errx.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, err
	}
	return u, nil
}
