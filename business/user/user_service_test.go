package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

type fakeSessions struct {
	tokens map[string]string
}

func (f *fakeSessions) StoreToken(_ context.Context, data domain.Session, _ time.Duration) error {
	f.tokens[data.Token] = data.UserID
	return nil
}

func (f *fakeSessions) ValidateToken(_ context.Context, token string) (string, error) {
	id, ok := f.tokens[token]
	if !ok {
		return "", errors.New("token not found or expired")
	}
	return id, nil
}

func (f *fakeSessions) DeleteToken(_ context.Context, _, token string) error {
	delete(f.tokens, token)
	return nil
}

func TestSeedAdminAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	repo := newFakeUserRepo()
	sessions := &fakeSessions{tokens: map[string]string{}}
	svc := NewUserService(repo, sessions, validator.New(), time.Hour)

	if err := svc.SeedAdmin(ctx, "Admin@Alma.it", "password123"); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if err := svc.SeedAdmin(ctx, "other@alma.it", "password123"); err != nil {
		t.Fatalf("SeedAdmin() second call error = %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("users = %d, want 1", len(repo.users))
	}

	token, user, err := svc.Login(ctx, "admin@alma.it", "password123", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Password != "" || user.Role != domain.RoleAdmin {
		t.Errorf("user = %+v", user)
	}

	claims, err := utils.ParseJWT(token)
	if err != nil || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}

	if id, err := svc.ValidateTokenFromRedis(ctx, token); err != nil || id != "1" {
		t.Errorf("ValidateTokenFromRedis() = %q, %v", id, err)
	}

	if err := svc.Logout(ctx, user.ID, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.ValidateTokenFromRedis(ctx, token); err == nil {
		t.Error("token still valid after logout")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil, validator.New(), time.Hour)

	if _, err := svc.CreateUser(ctx, &domain.User{Email: "ed@alma.it", Password: "password123"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"ed@alma.it", "wrong-password"},
		{"nobody@alma.it", "password123"},
	} {
		if _, _, err := svc.Login(ctx, tc.email, tc.password, "", ""); err == nil || err.Error() != "invalid credentials" {
			t.Errorf("Login(%s) err = %v, want invalid credentials", tc.email, err)
		}
	}
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil, validator.New(), time.Hour)

	created, err := svc.CreateUser(ctx, &domain.User{Email: "ed@alma.it", Password: "password123"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Role != domain.RoleEditor {
		t.Errorf("role = %q, want editor", created.Role)
	}

	tests := []struct {
		name    string
		user    domain.User
		wantErr string
	}{
		{name: "bad email", user: domain.User{Email: "nope", Password: "password123"}, wantErr: "invalid email format"},
		{name: "short password", user: domain.User{Email: "x@alma.it", Password: "short"}, wantErr: "password must be at least 8 characters"},
		{name: "bad role", user: domain.User{Email: "x@alma.it", Password: "password123", Role: "root"}, wantErr: "invalid role"},
		{name: "duplicate", user: domain.User{Email: "ED@alma.it", Password: "password123"}, wantErr: "email already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			if _, err := svc.CreateUser(ctx, &u); err == nil || err.Error() != tt.wantErr {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteUserSelf(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, validator.New(), time.Hour)

	if err := svc.DeleteUser(context.Background(), 3, 3); err == nil {
		t.Fatal("expected error deleting own account")
	}
}
