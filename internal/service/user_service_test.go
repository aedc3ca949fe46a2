package service

import (
	"context"
	"testing"
	"time"

	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"
	"maskoff-server/pkg/mailer"
	"maskoff-server/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users    map[string]*models.User
	profiles map[string]*models.Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*models.User),
		profiles: make(map[string]*models.Profile),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User, profile *models.Profile) error {
	profile.UserID = user.ID
	f.users[user.ID] = user
	f.profiles[user.ID] = profile
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p, ok := f.profiles[id]; ok {
		u.Profile = *p
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) MaskIDTaken(_ context.Context, maskID string) (bool, error) {
	for _, p := range f.profiles {
		if p.MaskID == maskID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, profile *models.Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func newTestUserService(repo repository.UserRepository) UserService {
	tokens := token.NewEngine("test-secret", time.Hour)
	return NewUserService(repo, tokens, mailer.NewLogMailer(), nil, nil, "http://localhost:5173")
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:            "Test User",
		DOB:             "1999-04-12",
		Email:           "test@example.com",
		Username:        "testuser",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		MaskID:          "mask-heron",
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "testuser", resp.User.Username)
	assert.False(t, resp.User.EmailVerified)
	assert.NotEmpty(t, resp.User.VerificationToken)
	assert.NotEqual(t, "longenough", resp.User.Password, "password must be hashed")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RegisterRequest)
		wantErr error
	}{
		{"password mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "different1" }, ErrPasswordMismatch},
		{"password too short", func(r *models.RegisterRequest) { r.Password = "short"; r.ConfirmPassword = "short" }, ErrPasswordTooShort},
		{"bad dob", func(r *models.RegisterRequest) { r.DOB = "12-04-1999" }, ErrInvalidDOB},
		{"underage", func(r *models.RegisterRequest) { r.DOB = time.Now().AddDate(-15, 0, 0).Format("2006-01-02") }, ErrUnderage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(newFakeUserRepo())
			req := validRegistration()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Username = "other"
	dup.MaskID = "mask-other"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = validRegistration()
	dup.Email = "other@example.com"
	dup.MaskID = "mask-other"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dup = validRegistration()
	dup.Email = "other@example.com"
	dup.Username = "other"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrMaskIDTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "testuser", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "testuser", Password: "wrongpass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	userID := resp.User.ID

	err = svc.VerifyEmail(context.Background(), userID, "wrong-token")
	assert.ErrorIs(t, err, ErrInvalidVerification)

	err = svc.VerifyEmail(context.Background(), userID, resp.User.VerificationToken)
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.VerificationToken)

	// Repeat verification is a no-op, not an error.
	assert.NoError(t, svc.VerifyEmail(context.Background(), userID, ""))
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	userID := resp.User.ID

	// Unknown address is indistinguishable from success.
	assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))

	require.NoError(t, svc.ForgotPassword(context.Background(), "test@example.com"))
	user := repo.users[userID]
	require.NotEmpty(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpires)

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		UserID: userID, Token: "bogus", NewPassword: "newpassword", ConfirmNewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		UserID: userID, Token: user.ResetToken, NewPassword: "newpassword", ConfirmNewPassword: "newpassword",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[userID].Password), []byte("newpassword")))
	assert.Empty(t, repo.users[userID].ResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user := repo.users[resp.User.ID]
	expired := time.Now().Add(-time.Minute)
	user.ResetToken = "expired-token"
	user.ResetTokenExpires = &expired

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		UserID: user.ID, Token: "expired-token", NewPassword: "newpassword", ConfirmNewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
