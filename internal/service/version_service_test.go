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

type versionMockVersionRepo struct {
	domain.NoteVersionRepository
	versions []*domain.NoteVersion
}

func (m *versionMockVersionRepo) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.NoteVersion, error) {
	list := make([]*domain.NoteVersion, 0, len(m.versions))
	// 按版本号降序
	for i := len(m.versions) - 1; i >= 0; i-- {
		if m.versions[i].NoteID == noteID {
			list = append(list, m.versions[i])
		}
	}
	return list, nil
}

func (m *versionMockVersionRepo) GetByVersion(ctx context.Context, noteID, version int64) (*domain.NoteVersion, error) {
	for _, v := range m.versions {
		if v.NoteID == noteID && v.Version == version {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Tests ---

func newVersionTestFixture() (*versionMockVersionRepo, VersionService) {
	versionRepo := &versionMockVersionRepo{
		versions: []*domain.NoteVersion{
			{NoteID: 1, Version: 1, Title: "v1", Content: "line one\n", SavedBy: 10},
			{NoteID: 1, Version: 2, Title: "v2", Content: "line one\nline two\n", SavedBy: 10, ChangeNote: "add line"},
		},
	}
	noteRepo := newShareMockNoteRepo(&domain.Note{
		ID: 1, AuthorUID: 10, Version: 3, Content: "line one\nline two\nline three\n",
	})
	svc := NewVersionService(versionRepo, noteRepo, &noteMockCollabRepo{}, zap.NewNop())
	return versionRepo, svc
}

func TestVersionService_List(t *testing.T) {
	_, svc := newVersionTestFixture()

	list, err := svc.List(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// 降序排列
	if list[0].Version != 2 || list[1].Version != 1 {
		t.Errorf("order = [%d %d], want [2 1]", list[0].Version, list[1].Version)
	}
	// 列表不返回正文
	if list[0].Content != "" {
		t.Error("list items should not carry content")
	}

	// 非协作者拒绝
	_, err = svc.List(context.Background(), 99, 1)
	assertCode(t, err, code.ErrorNoPermission)
}

func TestVersionService_Get(t *testing.T) {
	_, svc := newVersionTestFixture()
	ctx := context.Background()

	got, err := svc.Get(ctx, 10, 1, 2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Content != "line one\nline two\n" {
		t.Errorf("Content = %q", got.Content)
	}
	if got.ChangeNote != "add line" {
		t.Errorf("ChangeNote = %q", got.ChangeNote)
	}

	_, err = svc.Get(ctx, 10, 1, 9)
	assertCode(t, err, code.ErrorNoteVersionNotFound)

	_, err = svc.Get(ctx, 10, 99, 1)
	assertCode(t, err, code.ErrorNoteNotFound)
}

func TestVersionService_Diff(t *testing.T) {
	_, svc := newVersionTestFixture()
	ctx := context.Background()

	// 与历史版本对比
	got, err := svc.Diff(ctx, 10, 1, &dto.VersionDiffRequest{From: 1, To: 2})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if got.FromVersion != 1 || got.ToVersion != 2 {
		t.Errorf("versions = %d->%d, want 1->2", got.FromVersion, got.ToVersion)
	}
	if got.Stats.Inserted == 0 {
		t.Error("expected inserted characters in diff stats")
	}

	// To 为 0 时与当前内容对比
	got, err = svc.Diff(ctx, 10, 1, &dto.VersionDiffRequest{From: 1})
	if err != nil {
		t.Fatalf("Diff() against current error = %v", err)
	}
	if got.ToVersion != 3 {
		t.Errorf("ToVersion = %d, want current version 3", got.ToVersion)
	}

	// 不存在的起始版本
	_, err = svc.Diff(ctx, 10, 1, &dto.VersionDiffRequest{From: 9})
	assertCode(t, err, code.ErrorNoteVersionNotFound)
}
