package service

import (
	"errors"
	"testing"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-auth-service-tests"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}
	if err := validatePassword(policy, "Passw0rd"); err != nil {
		t.Fatalf("expected valid password, got: %v", err)
	}
	if err := validatePassword(policy, "Pw1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password for short input, got: %v", err)
	}
	if err := validatePassword(policy, "password1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password without upper, got: %v", err)
	}
	if err := validatePassword(policy, "Password"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password without number, got: %v", err)
	}
	// 空策略不做校验
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("expected empty policy to accept, got: %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, err := normalizeEmail("  Buyer@Example.COM ")
	if err != nil {
		t.Fatalf("normalizeEmail failed: %v", err)
	}
	if got != "buyer@example.com" {
		t.Fatalf("expected lowercase trimmed email, got %s", got)
	}
	if _, err := normalizeEmail("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := openCheckoutDB(t, "auth_register_login")
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{
		Email:       "New.User@Example.com",
		Password:    "Secret123",
		DisplayName: " Trần Thị Bình ",
		Phone:       "0900000002",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "new.user@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.DisplayName != "Trần Thị Bình" {
		t.Fatalf("expected trimmed display name, got %q", user.DisplayName)
	}
	if user.Role != constants.RoleUser || user.Status != constants.UserStatusActive {
		t.Fatalf("unexpected role/status: %s/%s", user.Role, user.Status)
	}
	if user.PasswordHash == "Secret123" {
		t.Fatalf("expected hashed password")
	}

	// 重复邮箱（大小写不同）被拒绝
	if _, err := svc.Register(RegisterInput{Email: "NEW.USER@example.com", Password: "Secret123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}

	logged, token, expiresAt, err := svc.Login("new.user@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected token and expiry")
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("expected last login to be stamped")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := svc.Login("new.user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("missing@example.com", "Secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got: %v", err)
	}
}

func TestLoginBannedUser(t *testing.T) {
	db := openCheckoutDB(t, "auth_login_banned")
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{Email: "banned@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", constants.UserStatusBanned).Error; err != nil {
		t.Fatalf("ban user failed: %v", err)
	}

	if _, _, _, err := svc.Login("banned@example.com", "Secret123"); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected user banned, got: %v", err)
	}
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	db := openCheckoutDB(t, "auth_weak_password")
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Email: "weak@example.com", Password: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
}
