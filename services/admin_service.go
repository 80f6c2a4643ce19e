package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService guards the admin panel with a single seeded account.
type AdminService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewAdminService(db *gorm.DB, log *logrus.Logger) *AdminService {
	return &AdminService{db: db, log: log}
}

// EnsureAdmin creates the admin account when it does not exist yet. An
// existing account keeps its password.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return newValidationError("admin username and password are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("error checking admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	user := models.User{
		Username: username,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("error creating admin account: %w", err)
	}
	s.log.Infof("Admin account %s created", username)
	return nil
}

// Authenticate checks the credentials and returns a signed token.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("error fetching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warnf("Failed login for %s", user.Username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("error generating token: %w", err)
	}
	s.log.Infof("Login successful for user: %s, role: %s", user.Username, user.Role)
	return token, &user, nil
}
