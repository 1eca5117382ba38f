package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks ---

type noteMockNoteRepo struct {
	domain.NoteRepository
	notes  map[int64]*domain.Note
	nextID int64

	applyResult bool
	applyErr    error
	snapshot    *domain.NoteVersion

	softDeleted []int64
	restored    []int64
	purged      []int64
	viewIncrs   int
}

func newNoteMockNoteRepo() *noteMockNoteRepo {
	return &noteMockNoteRepo{
		notes:       make(map[int64]*domain.Note),
		nextID:      1,
		applyResult: true,
	}
}

func (m *noteMockNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	if n, ok := m.notes[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *noteMockNoteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	note.ID = m.nextID
	m.nextID++
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	m.notes[note.ID] = note
	return note, nil
}

func (m *noteMockNoteRepo) ApplyContentUpdate(ctx context.Context, id int64, expectedVersion int64, fields map[string]interface{}, snapshot *domain.NoteVersion) (bool, error) {
	if m.applyErr != nil {
		return false, m.applyErr
	}
	if !m.applyResult {
		return false, nil
	}
	m.snapshot = snapshot
	n := m.notes[id]
	n.Version++
	n.EditCount++
	if c, ok := fields["content"]; ok {
		n.Content = c.(string)
	}
	if t, ok := fields["title"]; ok {
		n.Title = t.(string)
	}
	return true, nil
}

func (m *noteMockNoteRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}, tagsBefore, tagsAfter []string, uid int64) error {
	n := m.notes[id]
	if s, ok := fields["status"]; ok {
		n.Status = domain.NoteStatus(s.(string))
	}
	if t, ok := fields["title"]; ok {
		n.Title = t.(string)
	}
	if ct, ok := fields["content_type"]; ok {
		n.ContentType = domain.ContentType(ct.(string))
	}
	if tagsAfter != nil {
		n.Tags = tagsAfter
	}
	return nil
}

func (m *noteMockNoteRepo) SoftDelete(ctx context.Context, note *domain.Note, deletedAt time.Time) error {
	note.IsDeleted = true
	note.DeletedAt = deletedAt
	m.softDeleted = append(m.softDeleted, note.ID)
	return nil
}

func (m *noteMockNoteRepo) Restore(ctx context.Context, note *domain.Note) error {
	note.IsDeleted = false
	note.DeletedAt = time.Time{}
	m.restored = append(m.restored, note.ID)
	return nil
}

func (m *noteMockNoteRepo) Purge(ctx context.Context, id int64) error {
	delete(m.notes, id)
	m.purged = append(m.purged, id)
	return nil
}

func (m *noteMockNoteRepo) IncrViewCount(ctx context.Context, id int64, viewedAt time.Time) error {
	m.viewIncrs++
	return nil
}

type noteMockCollabRepo struct {
	domain.CollaboratorRepository
	// uid -> 权限级别，单笔记场景
	perms map[int64]domain.Permission
}

func (m *noteMockCollabRepo) GetByNoteAndUID(ctx context.Context, noteID, uid int64) (*domain.Collaborator, error) {
	if p, ok := m.perms[uid]; ok {
		return &domain.Collaborator{NoteID: noteID, UID: uid, Permission: p}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Helpers ---

func testServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		App: AppServiceConfig{
			ExcerptLength:         200,
			ReadingWordsPerMinute: 200,
		},
		Share: ShareServiceConfig{
			DefaultPermission: "view",
		},
	}
}

func newTestNoteService(noteRepo *noteMockNoteRepo, collabRepo *noteMockCollabRepo) NoteService {
	if collabRepo == nil {
		collabRepo = &noteMockCollabRepo{}
	}
	return NewNoteService(noteRepo, collabRepo, zap.NewNop(), testServiceConfig())
}

// assertCode 校验返回的错误是期望的业务状态码
func assertCode(t *testing.T, err error, want *code.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %d, got nil", want.Code())
	}
	var got *code.Code
	if !errors.As(err, &got) {
		t.Fatalf("expected *code.Code, got %T: %v", err, err)
	}
	if got.Code() != want.Code() {
		t.Fatalf("expected code %d, got %d (%v)", want.Code(), got.Code(), err)
	}
}

// --- Tests ---

func TestNoteService_Create_Defaults(t *testing.T) {
	repo := newNoteMockNoteRepo()
	svc := newTestNoteService(repo, nil)

	got, err := svc.Create(context.Background(), 1, &dto.NoteCreateRequest{
		Title:   "hello",
		Content: "one two three",
		Tags:    []string{" go ", "go", "", "notes"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if got.ContentType != "markdown" || got.Status != "draft" || got.Visibility != "private" {
		t.Errorf("defaults = %s/%s/%s, want markdown/draft/private", got.ContentType, got.Status, got.Visibility)
	}
	if got.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3", got.WordCount)
	}
	if got.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", got.ReadingTime)
	}
	if got.Excerpt != "one two three" {
		t.Errorf("Excerpt = %q", got.Excerpt)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "notes" {
		t.Errorf("Tags = %v, want [go notes]", got.Tags)
	}
	if !got.AllowComments {
		t.Error("AllowComments should default to true")
	}
}

func TestNoteService_Create_InvalidParams(t *testing.T) {
	svc := newTestNoteService(newNoteMockNoteRepo(), nil)

	tests := []struct {
		name string
		req  *dto.NoteCreateRequest
	}{
		{"invalid status", &dto.NoteCreateRequest{Title: "t", Status: "trashed"}},
		{"invalid visibility", &dto.NoteCreateRequest{Title: "t", Visibility: "hidden"}},
		{"invalid content type", &dto.NoteCreateRequest{Title: "t", ContentType: "html"}},
		{"priority too high", &dto.NoteCreateRequest{Title: "t", Priority: 6}},
		{"priority negative", &dto.NoteCreateRequest{Title: "t", Priority: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tt.req)
			assertCode(t, err, code.ErrorInvalidParams)
		})
	}
}

func TestNoteService_Get_Permissions(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, Title: "n"}
	collab := &noteMockCollabRepo{perms: map[int64]domain.Permission{
		20: domain.PermissionView,
	}}
	svc := newTestNoteService(repo, collab)

	// 作者可读
	if _, err := svc.Get(context.Background(), 10, 1); err != nil {
		t.Fatalf("author Get() error = %v", err)
	}

	// 只读协作者可读
	if _, err := svc.Get(context.Background(), 20, 1); err != nil {
		t.Fatalf("view collaborator Get() error = %v", err)
	}

	// 非协作者拒绝
	_, err := svc.Get(context.Background(), 30, 1)
	assertCode(t, err, code.ErrorNoPermission)

	// 浏览计数只对成功读取递增
	if repo.viewIncrs != 2 {
		t.Errorf("viewIncrs = %d, want 2", repo.viewIncrs)
	}

	// 不存在的笔记
	_, err = svc.Get(context.Background(), 10, 99)
	assertCode(t, err, code.ErrorNoteNotFound)
}

func TestNoteService_Get_DeletedOnlyAuthor(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, IsDeleted: true, DeletedAt: time.Now()}
	collab := &noteMockCollabRepo{perms: map[int64]domain.Permission{
		20: domain.PermissionAdmin,
	}}
	svc := newTestNoteService(repo, collab)

	// 回收站中的笔记作者可见
	got, err := svc.Get(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("author Get() error = %v", err)
	}
	if got.DeletedAt.Time().IsZero() {
		t.Error("DeletedAt should be set")
	}

	// 管理级协作者也不可见
	_, err = svc.Get(context.Background(), 20, 1)
	assertCode(t, err, code.ErrorNoteNotFound)

	// 回收站中的笔记不计浏览
	if repo.viewIncrs != 0 {
		t.Errorf("viewIncrs = %d, want 0", repo.viewIncrs)
	}
}

func TestNoteService_UpdateContent_VersionConflict(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, Version: 3, Content: "old"}
	repo.applyResult = false
	svc := newTestNoteService(repo, nil)

	content := "new"
	_, err := svc.UpdateContent(context.Background(), 10, 1, &dto.NoteUpdateRequest{
		Content: &content,
		Version: 2, // 客户端基于旧版本
	})
	assertCode(t, err, code.ErrorNoteVersionConflict)
}

func TestNoteService_UpdateContent_SnapshotsReplacedVersion(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{
		ID: 1, AuthorUID: 10, Version: 3,
		Title: "old title", Content: "old content",
		ContentType: domain.ContentTypeMarkdown, WordCount: 2,
	}
	collab := &noteMockCollabRepo{perms: map[int64]domain.Permission{
		20: domain.PermissionEdit,
	}}
	svc := newTestNoteService(repo, collab)

	content := "brand new content"
	got, err := svc.UpdateContent(context.Background(), 20, 1, &dto.NoteUpdateRequest{
		Content:    &content,
		Version:    3,
		ChangeNote: "rewrite",
	})
	if err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}

	if got.Version != 4 {
		t.Errorf("Version = %d, want 4", got.Version)
	}
	if got.Content != "brand new content" {
		t.Errorf("Content = %q", got.Content)
	}

	// 快照保存的是被替换的版本
	snap := repo.snapshot
	if snap == nil {
		t.Fatal("snapshot not written")
	}
	if snap.Version != 3 || snap.Content != "old content" || snap.Title != "old title" {
		t.Errorf("snapshot = v%d %q/%q, want v3 old title/old content", snap.Version, snap.Title, snap.Content)
	}
	if snap.SavedBy != 20 {
		t.Errorf("snapshot SavedBy = %d, want 20", snap.SavedBy)
	}
	if snap.ChangeNote != "rewrite" {
		t.Errorf("snapshot ChangeNote = %q", snap.ChangeNote)
	}
}

func TestNoteService_UpdateContent_TitleOnlyNoVersionBump(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{
		ID: 1, AuthorUID: 10, Version: 3,
		Title: "old title", Content: "same content",
	}
	svc := newTestNoteService(repo, nil)
	ctx := context.Background()

	// 仅标题变更不递增版本，也不产生快照
	title := "new title"
	got, err := svc.UpdateContent(ctx, 10, 1, &dto.NoteUpdateRequest{Title: &title, Version: 3})
	if err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	if got.Version != 3 {
		t.Errorf("Version = %d, want unchanged 3", got.Version)
	}
	if got.Title != "new title" {
		t.Errorf("Title = %q, want new title", got.Title)
	}
	if repo.snapshot != nil {
		t.Error("title-only update should not write a version snapshot")
	}

	// 内容与当前一致时同样不递增版本
	same := "same content"
	got, err = svc.UpdateContent(ctx, 10, 1, &dto.NoteUpdateRequest{Content: &same, Version: 3})
	if err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	if got.Version != 3 {
		t.Errorf("Version = %d, want unchanged 3", got.Version)
	}
	if repo.snapshot != nil {
		t.Error("identical content should not write a version snapshot")
	}

	// 内容实际变化时才走版本路径
	changed := "different content"
	got, err = svc.UpdateContent(ctx, 10, 1, &dto.NoteUpdateRequest{Content: &changed, Version: 3})
	if err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	if got.Version != 4 {
		t.Errorf("Version = %d, want 4", got.Version)
	}
	if repo.snapshot == nil || repo.snapshot.Content != "same content" {
		t.Error("content change should snapshot the replaced version")
	}
}

func TestNoteService_UpdateContent_Guards(t *testing.T) {
	content := "x"

	t.Run("view collaborator rejected", func(t *testing.T) {
		repo := newNoteMockNoteRepo()
		repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, Version: 1}
		collab := &noteMockCollabRepo{perms: map[int64]domain.Permission{
			20: domain.PermissionView,
		}}
		svc := newTestNoteService(repo, collab)

		_, err := svc.UpdateContent(context.Background(), 20, 1, &dto.NoteUpdateRequest{Content: &content, Version: 1})
		assertCode(t, err, code.ErrorNoPermission)
	})

	t.Run("deleted note rejected", func(t *testing.T) {
		repo := newNoteMockNoteRepo()
		repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, Version: 1, IsDeleted: true}
		svc := newTestNoteService(repo, nil)

		_, err := svc.UpdateContent(context.Background(), 10, 1, &dto.NoteUpdateRequest{Content: &content, Version: 1})
		assertCode(t, err, code.ErrorNoteAlreadyDeleted)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		repo := newNoteMockNoteRepo()
		repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10, Version: 1}
		svc := newTestNoteService(repo, nil)

		_, err := svc.UpdateContent(context.Background(), 10, 1, &dto.NoteUpdateRequest{Version: 1})
		assertCode(t, err, code.ErrorInvalidParams)
	})
}

func TestNoteService_DeleteLifecycle(t *testing.T) {
	repo := newNoteMockNoteRepo()
	repo.notes[1] = &domain.Note{ID: 1, AuthorUID: 10}
	svc := newTestNoteService(repo, nil)
	ctx := context.Background()

	// 非作者不能删除
	assertCode(t, svc.Delete(ctx, 20, 1), code.ErrorNoPermission)

	// 未删除的笔记不能物理删除
	assertCode(t, svc.DeletePermanent(ctx, 10, 1), code.ErrorNoteNotDeleted)

	// 未删除的笔记不能恢复
	_, err := svc.Restore(ctx, 10, 1)
	assertCode(t, err, code.ErrorNoteNotDeleted)

	// 移入回收站
	if err := svc.Delete(ctx, 10, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.notes[1].IsDeleted {
		t.Fatal("note should be in trash")
	}

	// 重复删除
	assertCode(t, svc.Delete(ctx, 10, 1), code.ErrorNoteAlreadyDeleted)

	// 恢复
	restored, err := svc.Restore(ctx, 10, 1)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !restored.DeletedAt.Time().IsZero() {
		t.Error("restored note should have zero DeletedAt")
	}

	// 再次删除后物理删除
	if err := svc.Delete(ctx, 10, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.DeletePermanent(ctx, 10, 1); err != nil {
		t.Fatalf("DeletePermanent() error = %v", err)
	}
	if len(repo.purged) != 1 || repo.purged[0] != 1 {
		t.Errorf("purged = %v, want [1]", repo.purged)
	}

	// 已物理删除
	assertCode(t, svc.Delete(ctx, 10, 1), code.ErrorNoteNotFound)
}

// 权限级别全序: view < edit < admin，AtLeast 与级别排序一致
func TestProperty_PermissionOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	rank := map[string]int{"view": 1, "edit": 2, "admin": 3}

	properties.Property("AtLeast matches rank ordering", prop.ForAll(
		func(a, b string) bool {
			pa := domain.ParsePermission(a)
			pb := domain.ParsePermission(b)
			return pa.AtLeast(pb) == (rank[a] >= rank[b])
		},
		gen.OneConstOf("view", "edit", "admin"),
		gen.OneConstOf("view", "edit", "admin"),
	))

	properties.Property("String round-trips through ParsePermission", prop.ForAll(
		func(s string) bool {
			return domain.ParsePermission(s).String() == s
		},
		gen.OneConstOf("view", "edit", "admin"),
	))

	properties.Property("unknown permissions never satisfy view", prop.ForAll(
		func(s string) bool {
			return !domain.ParsePermission(s).AtLeast(domain.PermissionView)
		},
		gen.AlphaString().SuchThat(func(s string) bool {
			return s != "view" && s != "edit" && s != "admin"
		}),
	))

	properties.TestingRun(t)
}
