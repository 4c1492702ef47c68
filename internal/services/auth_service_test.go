package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (AuthService, *utils.TokenIssuer) {
	t.Helper()
	tokens, err := utils.NewTokenIssuer("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAuthService(newMemStore(), &fakeTx{}, tokens)
	svc.(*authService).cost = bcrypt.MinCost
	return svc, tokens
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.RegisterUser(ctx, RegisterUserRequest{Username: "site-manager", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Role != models.RoleAdmin {
		t.Fatalf("first role = %q, want Admin", first.Role)
	}

	second, err := svc.RegisterUser(ctx, RegisterUserRequest{Username: "storekeeper", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Role != models.RoleStaff {
		t.Fatalf("second role = %q, want Staff", second.Role)
	}

	_, err = svc.RegisterUser(ctx, RegisterUserRequest{Username: "storekeeper", Password: "password123"})
	if !errors.Is(err, ErrUsernameExists) || !errors.Is(err, ErrUniquenessViolation) {
		t.Fatalf("duplicate err = %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.RegisterUser(context.Background(), RegisterUserRequest{Username: "a", Password: "short"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, tokens := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.RegisterUser(ctx, RegisterUserRequest{Username: "foreman", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.LoginUser(ctx, LoginRequest{Username: "foreman", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("expires_in = %d", resp.ExpiresIn)
	}
	claims, err := tokens.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := svc.LoginUser(ctx, LoginRequest{Username: "foreman", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := svc.LoginUser(ctx, LoginRequest{Username: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}

	profile, err := svc.GetUserProfile(ctx, user.ID)
	if err != nil || profile.Username != "foreman" {
		t.Fatalf("profile = %+v, err = %v", profile, err)
	}
	if _, err := svc.GetUserProfile(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing profile err = %v", err)
	}
}
