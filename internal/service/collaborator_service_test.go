package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type collabMockCollabRepo struct {
	domain.CollaboratorRepository
	// uid -> 协作记录，单笔记场景
	records map[int64]*domain.Collaborator
}

func newCollabMockCollabRepo() *collabMockCollabRepo {
	return &collabMockCollabRepo{records: make(map[int64]*domain.Collaborator)}
}

func (m *collabMockCollabRepo) GetByNoteAndUID(ctx context.Context, noteID, uid int64) (*domain.Collaborator, error) {
	if c, ok := m.records[uid]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *collabMockCollabRepo) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.Collaborator, error) {
	list := make([]*domain.Collaborator, 0, len(m.records))
	for _, c := range m.records {
		list = append(list, c)
	}
	return list, nil
}

func (m *collabMockCollabRepo) Create(ctx context.Context, c *domain.Collaborator) (*domain.Collaborator, error) {
	m.records[c.UID] = c
	return c, nil
}

func (m *collabMockCollabRepo) UpdatePermission(ctx context.Context, noteID, uid int64, p domain.Permission) error {
	m.records[uid].Permission = p
	return nil
}

func (m *collabMockCollabRepo) Delete(ctx context.Context, noteID, uid int64) error {
	delete(m.records, uid)
	return nil
}

type collabMockUserRepo struct {
	domain.UserRepository
	users map[int64]*domain.User
}

func (m *collabMockUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *collabMockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Helpers ---

func newCollabTestFixture() (*collabMockCollabRepo, *shareMockNoteRepo, *collabMockUserRepo, CollaboratorService) {
	collabRepo := newCollabMockCollabRepo()
	noteRepo := newShareMockNoteRepo(&domain.Note{ID: 1, AuthorUID: 10, Title: "n"})
	userRepo := &collabMockUserRepo{users: map[int64]*domain.User{
		10: {UID: 10, Email: "author@example.com", Username: "author"},
		20: {UID: 20, Email: "bob@example.com", Username: "bob"},
		30: {UID: 30, Email: "carol@example.com", Username: "carol"},
	}}
	svc := NewCollaboratorService(collabRepo, noteRepo, userRepo, nil, zap.NewNop(), testServiceConfig())
	return collabRepo, noteRepo, userRepo, svc
}

// --- Tests ---

func TestCollaboratorService_Add(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	got, err := svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{
		Email:      "bob@example.com",
		Permission: "edit",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got.UID != 20 {
		t.Errorf("UID = %d, want 20", got.UID)
	}
	if got.Permission != "edit" {
		t.Errorf("Permission = %q, want edit", got.Permission)
	}
	if got.AddedBy != 10 {
		t.Errorf("AddedBy = %d, want 10", got.AddedBy)
	}
	if got.Username != "bob" {
		t.Errorf("Username = %q, want bob (joined from user repo)", got.Username)
	}

	if _, ok := collabRepo.records[20]; !ok {
		t.Error("collaborator record not created")
	}
}

func TestCollaboratorService_Add_Conflicts(t *testing.T) {
	_, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	// 作者不能添加自己
	_, err := svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{Email: "author@example.com", Permission: "view"})
	assertCode(t, err, code.ErrorCollaboratorSelf)

	// 邮箱不存在
	_, err = svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{Email: "ghost@example.com", Permission: "view"})
	assertCode(t, err, code.ErrorUserNotFound)

	// 重复添加返回冲突，不隐式升级权限
	if _, err := svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{Email: "bob@example.com", Permission: "view"}); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	_, err = svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{Email: "bob@example.com", Permission: "admin"})
	assertCode(t, err, code.ErrorCollaboratorExists)
}

func TestCollaboratorService_Add_AuthorOnly(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	collabRepo.records[20] = &domain.Collaborator{NoteID: 1, UID: 20, Permission: domain.PermissionEdit}
	collabRepo.records[30] = &domain.Collaborator{NoteID: 1, UID: 30, Permission: domain.PermissionAdmin}

	// 编辑级协作者不能添加他人
	_, err := svc.Add(ctx, 20, 1, &dto.CollaboratorAddRequest{Email: "carol@example.com", Permission: "view"})
	assertCode(t, err, code.ErrorNoPermission)

	// 管理级协作者也不能，协作者管理只属于作者
	_, err = svc.Add(ctx, 30, 1, &dto.CollaboratorAddRequest{Email: "carol@example.com", Permission: "view"})
	assertCode(t, err, code.ErrorNoPermission)
}

func TestCollaboratorService_Add_DefaultPermission(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	// 未指定权限时缺省为 view
	got, err := svc.Add(ctx, 10, 1, &dto.CollaboratorAddRequest{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got.Permission != "view" {
		t.Errorf("Permission = %q, want view (default)", got.Permission)
	}
	if collabRepo.records[20].Permission != domain.PermissionView {
		t.Errorf("stored permission = %v, want view", collabRepo.records[20].Permission)
	}
}

func TestCollaboratorService_UpdatePermission(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	collabRepo.records[20] = &domain.Collaborator{NoteID: 1, UID: 20, Permission: domain.PermissionView}

	if err := svc.UpdatePermission(ctx, 10, 1, 20, &dto.CollaboratorUpdateRequest{Permission: "admin"}); err != nil {
		t.Fatalf("UpdatePermission() error = %v", err)
	}
	if collabRepo.records[20].Permission != domain.PermissionAdmin {
		t.Errorf("Permission = %v, want admin", collabRepo.records[20].Permission)
	}

	// 目标不是协作者
	err := svc.UpdatePermission(ctx, 10, 1, 99, &dto.CollaboratorUpdateRequest{Permission: "view"})
	assertCode(t, err, code.ErrorCollaboratorNotFound)

	// 非作者不能修改
	err = svc.UpdatePermission(ctx, 20, 1, 20, &dto.CollaboratorUpdateRequest{Permission: "view"})
	assertCode(t, err, code.ErrorNoPermission)
}

func TestCollaboratorService_Remove(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	collabRepo.records[20] = &domain.Collaborator{NoteID: 1, UID: 20, Permission: domain.PermissionView}
	collabRepo.records[30] = &domain.Collaborator{NoteID: 1, UID: 30, Permission: domain.PermissionEdit}

	// 协作者不能移除他人
	assertCode(t, svc.Remove(ctx, 20, 1, 30), code.ErrorNoPermission)

	// 协作者也不能移除自己，退出协作需要作者操作
	assertCode(t, svc.Remove(ctx, 20, 1, 20), code.ErrorNoPermission)

	// 作者可以移除任何协作者
	if err := svc.Remove(ctx, 10, 1, 20); err != nil {
		t.Fatalf("author Remove() error = %v", err)
	}
	if err := svc.Remove(ctx, 10, 1, 30); err != nil {
		t.Fatalf("author Remove() error = %v", err)
	}

	// 目标不是协作者
	assertCode(t, svc.Remove(ctx, 10, 1, 30), code.ErrorCollaboratorNotFound)
}

func TestCollaboratorService_List(t *testing.T) {
	collabRepo, _, _, svc := newCollabTestFixture()
	ctx := context.Background()

	collabRepo.records[20] = &domain.Collaborator{NoteID: 1, UID: 20, Permission: domain.PermissionView}

	// 协作者可以查看列表
	list, err := svc.List(ctx, 20, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].UID != 20 {
		t.Errorf("list = %+v", list)
	}
	if list[0].Email != "bob@example.com" {
		t.Errorf("Email = %q, want joined user profile", list[0].Email)
	}

	// 无关用户不能查看
	_, err = svc.List(ctx, 99, 1)
	assertCode(t, err, code.ErrorNoPermission)
}
