package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type userMockUserRepo struct {
	domain.UserRepository
	users  map[int64]*domain.User
	nextID int64

	updatedPassword string
}

func newUserMockUserRepo(users ...*domain.User) *userMockUserRepo {
	m := &userMockUserRepo{users: make(map[int64]*domain.User), nextID: 1}
	for _, u := range users {
		m.users[u.UID] = u
		if u.UID >= m.nextID {
			m.nextID = u.UID + 1
		}
	}
	return m
}

func (m *userMockUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *userMockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *userMockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *userMockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.UID = m.nextID
	m.nextID++
	m.users[user.UID] = user
	return user, nil
}

func (m *userMockUserRepo) UpdatePassword(ctx context.Context, password string, uid int64) error {
	m.users[uid].Password = password
	m.updatedPassword = password
	return nil
}

type userMockTokenManager struct {
	app.TokenManager
	generated int
}

func (m *userMockTokenManager) Generate(uid int64, username, ip string) (string, error) {
	m.generated++
	return "test-token", nil
}

// --- Helpers ---

func newTestUserService(repo *userMockUserRepo, registerEnabled bool) UserService {
	cfg := testServiceConfig()
	cfg.User.RegisterIsEnable = registerEnabled
	return NewUserService(repo, &userMockTokenManager{}, zap.NewNop(), cfg)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := util.GeneratePasswordHash(password)
	if err != nil {
		t.Fatalf("GeneratePasswordHash() error = %v", err)
	}
	return h
}

// --- Tests ---

func TestUserService_Register(t *testing.T) {
	repo := newUserMockUserRepo()
	svc := newTestUserService(repo, true)

	got, err := svc.Register(context.Background(), &dto.UserRegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got.UID == 0 {
		t.Error("UID should be assigned")
	}
	if got.Token == "" {
		t.Error("Token should be issued on register")
	}

	// 密码以哈希存储
	stored := repo.users[got.UID]
	if stored.Password == "secret123" {
		t.Error("password must not be stored in plain text")
	}
	if !util.CheckPasswordHash("secret123", stored.Password) {
		t.Error("stored hash should verify against the original password")
	}
}

func TestUserService_Register_Guards(t *testing.T) {
	existing := &domain.User{UID: 1, Email: "taken@example.com", Username: "taken"}

	tests := []struct {
		name    string
		enabled bool
		req     *dto.UserRegisterRequest
		want    *code.Code
	}{
		{
			name:    "registration disabled",
			enabled: false,
			req:     &dto.UserRegisterRequest{Email: "a@example.com", Username: "alice", Password: "secret123", ConfirmPassword: "secret123"},
			want:    code.ErrorUserRegisterIsDisable,
		},
		{
			name:    "invalid username",
			enabled: true,
			req:     &dto.UserRegisterRequest{Email: "a@example.com", Username: "a!", Password: "secret123", ConfirmPassword: "secret123"},
			want:    code.ErrorUserUsernameNotValid,
		},
		{
			name:    "password mismatch",
			enabled: true,
			req:     &dto.UserRegisterRequest{Email: "a@example.com", Username: "alice", Password: "secret123", ConfirmPassword: "other"},
			want:    code.ErrorUserPasswordNotMatch,
		},
		{
			name:    "email already registered",
			enabled: true,
			req:     &dto.UserRegisterRequest{Email: "taken@example.com", Username: "alice", Password: "secret123", ConfirmPassword: "secret123"},
			want:    code.ErrorUserEmailAlreadyExists,
		},
		{
			name:    "username already exists",
			enabled: true,
			req:     &dto.UserRegisterRequest{Email: "new@example.com", Username: "taken", Password: "secret123", ConfirmPassword: "secret123"},
			want:    code.ErrorUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserService(newUserMockUserRepo(existing), tt.enabled)
			_, err := svc.Register(context.Background(), tt.req)
			assertCode(t, err, tt.want)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash := mustHash(t, "secret123")
	repo := newUserMockUserRepo(&domain.User{
		UID: 1, Email: "alice@example.com", Username: "alice", Password: hash,
	})
	svc := newTestUserService(repo, true)
	ctx := context.Background()

	// 邮箱登录
	got, err := svc.Login(ctx, &dto.UserLoginRequest{Account: "alice@example.com", Password: "secret123"}, "127.0.0.1")
	if err != nil {
		t.Fatalf("email Login() error = %v", err)
	}
	if got.Token == "" {
		t.Error("Token should be issued on login")
	}

	// 用户名登录
	if _, err := svc.Login(ctx, &dto.UserLoginRequest{Account: "alice", Password: "secret123"}, ""); err != nil {
		t.Errorf("username Login() error = %v", err)
	}

	// 密码错误
	_, err = svc.Login(ctx, &dto.UserLoginRequest{Account: "alice", Password: "wrong"}, "")
	assertCode(t, err, code.ErrorUserLoginFailed)

	// 账号不存在
	_, err = svc.Login(ctx, &dto.UserLoginRequest{Account: "ghost", Password: "secret123"}, "")
	assertCode(t, err, code.ErrorUserLoginFailed)
}

func TestUserService_Login_DeletedUser(t *testing.T) {
	hash := mustHash(t, "secret123")
	repo := newUserMockUserRepo(&domain.User{
		UID: 1, Email: "gone@example.com", Username: "gone", Password: hash, IsDeleted: true,
	})
	svc := newTestUserService(repo, true)

	_, err := svc.Login(context.Background(), &dto.UserLoginRequest{Account: "gone", Password: "secret123"}, "")
	assertCode(t, err, code.ErrorUserLoginFailed)
}

func TestUserService_ChangePassword(t *testing.T) {
	hash := mustHash(t, "oldpass123")
	repo := newUserMockUserRepo(&domain.User{UID: 1, Username: "alice", Password: hash})
	svc := newTestUserService(repo, true)
	ctx := context.Background()

	// 旧密码错误
	err := svc.ChangePassword(ctx, 1, &dto.UserChangePasswordRequest{
		OldPassword: "wrong", Password: "newpass123", ConfirmPassword: "newpass123",
	})
	assertCode(t, err, code.ErrorUserOldPasswordInvalid)

	// 成功修改
	err = svc.ChangePassword(ctx, 1, &dto.UserChangePasswordRequest{
		OldPassword: "oldpass123", Password: "newpass123", ConfirmPassword: "newpass123",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if !util.CheckPasswordHash("newpass123", repo.users[1].Password) {
		t.Error("new password hash should verify")
	}

	// 用户不存在
	err = svc.ChangePassword(ctx, 99, &dto.UserChangePasswordRequest{
		OldPassword: "x", Password: "newpass123", ConfirmPassword: "newpass123",
	})
	assertCode(t, err, code.ErrorUserNotFound)
}
