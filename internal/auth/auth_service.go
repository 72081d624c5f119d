package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken string, resp AuthResponse, err error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (string, AuthResponse, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login user lookup failed", zap.Error(err))
			return "", AuthResponse{}, err
		}
		s.logger.Warn("login unknown username", zap.String("username", username))
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login wrong password", zap.String("user_id", user.ID.String()))
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	profile, role, err := s.resolveRole(ctx, user)
	if err != nil {
		return "", AuthResponse{}, err
	}

	token, err := s.generateToken(user.ID, profile, role)
	if err != nil {
		s.logger.Error("login token signing failed", zap.Error(err))
		return "", AuthResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)
	return token, mapToResponse(*user, profile, string(role)), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return AuthResponse{}, autherrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return AuthResponse{}, autherrors.ErrUsernameTaken
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("register success", zap.String("user_id", user.ID.String()))
	return mapToResponse(*user, nil, string(rbac.RoleEmployee)), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	profile, role, err := s.resolveRole(ctx, user)
	if err != nil {
		return AuthResponse{}, err
	}
	return mapToResponse(*user, profile, string(role)), nil
}

// EnsureAdmin creates the bootstrap administrator when it does not exist
// yet. An existing account with that username is promoted.
func (s *service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	user, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.IsAdmin {
			return false, nil
		}
		user.IsAdmin = true
		if err := s.repo.Update(ctx, user); err != nil {
			return false, err
		}
		s.logger.Info("bootstrap admin promoted", zap.String("username", username))
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}

// resolveRole runs once per token. Accounts flagged IsAdmin are admins even
// without an employee profile.
func (s *service) resolveRole(ctx context.Context, user *User) (*EmployeeProfile, rbac.Role, error) {
	profile, err := s.repo.FindEmployeeProfile(ctx, user.ID)
	if err != nil {
		s.logger.Error("employee profile lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, "", err
	}

	role := rbac.RoleEmployee
	if user.IsAdmin {
		role = rbac.RoleAdmin
	} else if profile != nil {
		role = rbac.ParseRole(profile.Role)
	}
	return profile, role, nil
}

func (s *service) generateToken(userID uuid.UUID, profile *EmployeeProfile, role rbac.Role) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	if profile != nil {
		claims["employee_id"] = profile.ID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
