package service

import (
	"errors"
	"strings"
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/config"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService 用户身份服务
type UserService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	profileRepo repository.CustomerProfileRepository
}

// NewUserService 创建用户身份服务
func NewUserService(cfg *config.Config, userRepo repository.UserRepository, profileRepo repository.CustomerProfileRepository) *UserService {
	return &UserService{
		cfg:         cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// VerifyPassword 校验明文密码与哈希是否匹配
func (s *UserService) VerifyPassword(user *models.User, password string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// GetUserByID 获取用户信息
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// GetOrCreateProfile 获取用户客户资料（不存在时创建默认资料）
func (s *UserService) GetOrCreateProfile(userID uint) (*models.CustomerProfile, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return s.profileRepo.GetOrCreateByUser(userID)
}

// UpdateProfileInput 客户资料更新输入（nil 表示不修改该字段）
type UpdateProfileInput struct {
	PhoneNumber   *string
	StreetAddress *string
	City          *string
	State         *string
	ZipCode       *string
	Country       *string
	DateOfBirth   *time.Time
	Newsletter    *bool
}

// UpdateProfile 更新客户资料（部分更新）
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.CustomerProfile, error) {
	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.PhoneNumber != nil {
		profile.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.StreetAddress != nil {
		profile.StreetAddress = strings.TrimSpace(*input.StreetAddress)
	}
	if input.City != nil {
		profile.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		profile.State = strings.TrimSpace(*input.State)
	}
	if input.ZipCode != nil {
		profile.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Country != nil {
		trimmed := strings.TrimSpace(*input.Country)
		if trimmed == "" {
			return nil, ErrInvalidInput
		}
		profile.Country = trimmed
	}
	if input.DateOfBirth != nil {
		profile.DateOfBirth = input.DateOfBirth
	}
	if input.Newsletter != nil {
		profile.Newsletter = *input.Newsletter
	}

	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}
