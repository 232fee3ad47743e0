package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mafia_web/internal/models"
	"mafia_web/internal/repository"
	"mafia_web/internal/utils"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 120
	maxEmailLength    = 256
)

// PasswordHasher 密碼雜湊與驗證
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenManager 簽發與解析存取權杖
type TokenManager interface {
	IssueToken(userID uint, username, role string) (string, error)
	ParseToken(token string) (*utils.Claims, error)
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserView 用戶的公開資料
type UserView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProfileView struct {
	ID          uint    `json:"id"`
	UserID      uint    `json:"user_id"`
	Description *string `json:"description"`
}

type UserService struct {
	repos  *repository.Repositories
	hasher PasswordHasher
	tokens TokenManager
	log    *zap.Logger
}

func NewUserService(repos *repository.Repositories, hasher PasswordHasher, tokens TokenManager, log *zap.Logger) *UserService {
	return &UserService{repos: repos, hasher: hasher, tokens: tokens, log: log}
}

func NewUserView(u *models.User) *UserView {
	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func validateRegistration(in *RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return ValidationError("username is required")
	}
	if len(in.Username) > maxUsernameLength {
		return ValidationError("username must be at most %d characters", maxUsernameLength)
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email || len(in.Email) > maxEmailLength {
		return ValidationError("invalid email address")
	}
	if in.Password != in.ConfirmPassword {
		return ValidationError("passwords do not match")
	}
	if len(in.Password) < minPasswordLength {
		return ValidationError("password must be at least %d characters", minPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range in.Password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return ValidationError("password must contain at least one letter")
	}
	if !hasDigit {
		return ValidationError("password must contain at least one digit")
	}
	return nil
}

// Register 建立新用戶
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	if err := validateRegistration(&in); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Role:     models.RoleUser,
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		taken, err := tx.User.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return ConflictError("user already exists")
		}
		return tx.User.Create(ctx, user)
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ConflictError("user already exists")
	case KindOf(err) != 0:
		return nil, err
	default:
		s.log.Error("failed to create user", zap.String("username", in.Username), zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return NewUserView(user), nil
}

// IssueToken 驗證帳號密碼並簽發存取權杖
func (s *UserService) IssueToken(ctx context.Context, username, password string) (*TokenView, error) {
	user, err := s.repos.User.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CredentialsError("incorrect username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, CredentialsError("incorrect username or password")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenView{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate 解析權杖並從資料庫重新載入用戶
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, CredentialsError("could not validate credentials")
	}

	user, err := s.repos.User.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, CredentialsError("could not validate credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Username != claims.Subject {
		return nil, CredentialsError("could not validate credentials")
	}
	return user, nil
}

// CreateProfile 建立用戶的個人資料，每個用戶只能有一筆
func (s *UserService) CreateProfile(ctx context.Context, userID uint, description *string) (*ProfileView, error) {
	profile := &models.Profile{UserID: userID, Description: description}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, err := tx.Profile.FindByUserID(ctx, userID)
		if err == nil {
			return ConflictError("profile already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Profile.Create(ctx, profile)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictError("profile already exists")
	}
	if err != nil {
		return nil, err
	}
	return newProfileView(profile), nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	profile, err := s.repos.Profile.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return newProfileView(profile), nil
}

func newProfileView(p *models.Profile) *ProfileView {
	return &ProfileView{ID: p.ID, UserID: p.UserID, Description: p.Description}
}
