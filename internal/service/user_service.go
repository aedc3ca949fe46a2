package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"maskoff-server/internal/adapters/kafka"
	"maskoff-server/internal/adapters/storage"
	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"
	"maskoff-server/pkg/mailer"
	"maskoff-server/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrMaskIDTaken         = errors.New("mask ID already taken")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrUnderage            = errors.New("must be at least 16 years old")
	ErrInvalidDOB          = errors.New("invalid date of birth")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidVerification = errors.New("invalid verification token")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
)

const minimumAge = 16

// AuthResponse is returned by Login and Register.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error)
	VerifyEmail(ctx context.Context, userID, verifyToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	PublicProfile(ctx context.Context, id string) (*models.PublicUser, *models.Profile, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) error
	FetchAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

type userService struct {
	users     repository.UserRepository
	tokens    *token.Engine
	mail      mailer.Mailer
	avatars   *storage.AvatarStore
	activity  *kafka.ActivityPublisher
	clientURL string
}

func NewUserService(
	users repository.UserRepository,
	tokens *token.Engine,
	mail mailer.Mailer,
	avatars *storage.AvatarStore,
	activity *kafka.ActivityPublisher,
	clientURL string,
) UserService {
	return &userService{
		users:     users,
		tokens:    tokens,
		mail:      mail,
		avatars:   avatars,
		activity:  activity,
		clientURL: clientURL,
	}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, ErrInvalidDOB
	}
	if age(dob, time.Now()) < minimumAge {
		return nil, ErrUnderage
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	taken, err := s.users.MaskIDTaken(ctx, req.MaskID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrMaskIDTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:                uuid.New().String(),
		Name:              req.Name,
		DOB:               dob,
		Email:             req.Email,
		Username:          req.Username,
		Password:          string(hashed),
		VerificationToken: uuid.New().String(),
	}
	profile := &models.Profile{MaskID: req.MaskID}

	if err := s.users.Create(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Profile = *profile

	verifyURL := fmt.Sprintf("%s/verify-email?userID=%s&token=%s", s.clientURL, user.ID, user.VerificationToken)
	if err := s.mail.SendVerification(ctx, user.Email, user.Name, user.Username, verifyURL); err != nil {
		// The account exists either way; the user can request another mail.
		slog.Error("Failed to send verification mail", "userID", user.ID, "error", err)
	}

	accessToken, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.activity.Publish(ctx, "user.registered", user.ID, "")
	return &AuthResponse{Token: accessToken, User: user}, nil
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{Token: accessToken, User: user}, nil
}

func (s *userService) VerifyEmail(ctx context.Context, userID, verifyToken string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerification
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if verifyToken == "" || user.VerificationToken != verifyToken {
		return ErrInvalidVerification
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	return s.users.Update(ctx, user)
}

// ForgotPassword never reveals whether the address exists.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	expires := time.Now().Add(time.Hour)
	user.ResetToken = uuid.New().String()
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?userID=%s&token=%s", s.clientURL, user.ID, user.ResetToken)
	return s.mail.SendPasswordReset(ctx, user.Email, user.Name, user.Username, resetURL)
}

func (s *userService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmNewPassword {
		return ErrPasswordMismatch
	}
	if len(req.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if user.ResetToken == "" || user.ResetToken != req.Token {
		return ErrInvalidResetToken
	}
	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = string(hashed)
	user.ResetToken = ""
	user.ResetTokenExpires = nil
	return s.users.Update(ctx, user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) PublicProfile(ctx context.Context, id string) (*models.PublicUser, *models.Profile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return publicUser(user), &user.Profile, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, *publicUser(&users[i]))
	}
	return public, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.Profile
	profile.Details = req.Details
	profile.Bio = req.Bio
	profile.Skills = req.Skills
	if err := s.users.UpdateProfile(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	object, err := s.avatars.Upload(ctx, userID, r, size, contentType)
	if err != nil {
		return err
	}

	user.AvatarObject = object
	return s.users.Update(ctx, user)
}

func (s *userService) FetchAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.AvatarObject == "" {
		return nil, "", ErrUserNotFound
	}
	return s.avatars.Fetch(ctx, user.AvatarObject)
}

func publicUser(u *models.User) *models.PublicUser {
	pub := &models.PublicUser{
		UserID:   u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
	if u.AvatarObject != "" {
		pub.Avatar = "/api/user/" + u.ID + "/avatar"
	}
	return pub
}

// age in whole years at the reference time.
func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}
