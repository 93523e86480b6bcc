package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"transit-union/config"
	"transit-union/internal/dto"
	"transit-union/internal/model"
	"transit-union/internal/repository"
	"transit-union/pkg/jwt"
)

// ── 测试辅助 ──

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-for-auth-service",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func setupAuthService() (AuthService, *repository.Repository) {
	repo, _ := newTestRepository()
	cfg := testAuthConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

func seedLoginUser(repo *repository.Repository, email, password string, active bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_ = repo.User.Create(context.Background(), &model.User{
		UserID:         "user-001",
		OrganizationID: testOrgID,
		Email:          email,
		Name:           "测试用户",
		PasswordHash:   string(hash),
		Role:           "admin",
		IsActive:       active,
	})
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("Token 对不应为空")
	}
	if result.User.Email != "admin@example.com" {
		t.Errorf("期望返回当前用户，实际=%s", result.User.Email)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	// 不泄露账号是否存在
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("前置登录失败: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后应得到新 AccessToken")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})

	// AccessToken 不能当 RefreshToken 用
	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_DisabledAfterIssue(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})

	// 签发后账号被停用，刷新应被拒绝
	user, _ := repo.User.GetByEmail(context.Background(), "admin@example.com")
	user.IsActive = false

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	err := svc.ChangePassword(context.Background(), testOrgID, "user-001", &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "new-password-456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "new-password-456",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, repo := setupAuthService()
	seedLoginUser(repo, "admin@example.com", "password123", true)

	err := svc.ChangePassword(context.Background(), testOrgID, "user-001", &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "new-password-456",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}
