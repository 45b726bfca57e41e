package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/pkg/errx"
	"github.com/talentgrid/ctms/pkg/iam/user"
	"github.com/talentgrid/ctms/pkg/kernel"
)

type fakeUserRepo struct {
	byID    map[kernel.UserID]*user.User
	byEmail map[kernel.Email]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[kernel.UserID]*user.User{},
		byEmail: map[kernel.Email]*user.User{},
	}
}

func (r *fakeUserRepo) Save(ctx context.Context, u *user.User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return user.ErrEmailAlreadyExists()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound()
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound()
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	out := []user.User{}
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role user.Role) (int, error) {
	count := 0
	for _, u := range r.byID {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id kernel.UserID) error {
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound()
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

func newAuthService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokens := NewTokenService("test-secret", newFakeRevocationStore())
	return NewService(repo, tokens, NewPasswordService()), repo
}

func bootstrapRequest() BootstrapRequest {
	return BootstrapRequest{
		FirstName: "Amara",
		LastName:  "Perera",
		Email:     "Admin@Example.com",
		Password:  "hunter2hunter2",
	}
}

func TestBootstrap_OnlyOnce(t *testing.T) {
	svc, repo := newAuthService()

	resp, err := svc.Bootstrap(context.Background(), bootstrapRequest())
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "admin@example.com", resp.Email)

	count, _ := repo.CountByRole(context.Background(), user.RoleAdmin)
	assert.Equal(t, 1, count)

	req := bootstrapRequest()
	req.Email = "second@example.com"
	_, err = svc.Bootstrap(context.Background(), req)

	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, CodeAlreadyBootstrapped, e.Code)
}

func TestBootstrap_ValidatesPayload(t *testing.T) {
	svc, _ := newAuthService()

	req := bootstrapRequest()
	req.Password = "short"
	_, err := svc.Bootstrap(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Bootstrap(context.Background(), bootstrapRequest())
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "admin@example.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin", resp.User.Role)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, wrongPass := svc.Login(context.Background(), LoginRequest{
			Email:    "admin@example.com",
			Password: "wrong-password",
		})
		_, unknown := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "hunter2hunter2",
		})

		var e1, e2 *errx.Error
		require.True(t, errors.As(wrongPass, &e1))
		require.True(t, errors.As(unknown, &e2))
		assert.Equal(t, e1.Code, e2.Code)
		assert.Equal(t, CodeInvalidCredentials, e1.Code)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Bootstrap(context.Background(), bootstrapRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	authCtx, err := svc.tokens.ValidateToken(context.Background(), login.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), authCtx))

	_, err = svc.tokens.ValidateToken(context.Background(), login.Token)
	require.Error(t, err)
}

func TestDeleteHRUser_AdminProtected(t *testing.T) {
	svc, repo := newAuthService()

	admin, err := svc.Bootstrap(context.Background(), bootstrapRequest())
	require.NoError(t, err)

	hr, err := svc.RegisterHR(context.Background(), RegisterHRRequest{
		FirstName: "Nimal",
		LastName:  "Silva",
		Email:     "nimal@example.com",
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.DeleteHRUser(context.Background(), kernel.NewUserID(admin.ID))
	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, user.CodeCannotDeleteAdmin, e.Code)

	require.NoError(t, svc.DeleteHRUser(context.Background(), kernel.NewUserID(hr.ID)))
	_, err = repo.FindByID(context.Background(), kernel.NewUserID(hr.ID))
	require.Error(t, err)
}
