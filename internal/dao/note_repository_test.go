package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haierkeys/note-collab-service/internal/domain"

	"github.com/gookit/goutil/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDao 创建基于内存 sqlite 的 Dao
// 内存库限制为单连接，避免连接池拿到不同的空库
func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	return New(db, zap.NewNop())
}

func createTestNote(t *testing.T, repo domain.NoteRepository, uid int64, tags []string) *domain.Note {
	t.Helper()
	note, err := repo.Create(context.Background(), &domain.Note{
		AuthorUID:   uid,
		Title:       "test note",
		Content:     "initial content",
		ContentType: domain.ContentTypeMarkdown,
		Status:      domain.NoteStatusDraft,
		Visibility:  domain.VisibilityPrivate,
		Tags:        tags,
		Version:     1,
	})
	require.NoError(t, err)
	return note
}

func contentSnapshot(n *domain.Note, uid int64) *domain.NoteVersion {
	return &domain.NoteVersion{
		NoteID:      n.ID,
		Version:     n.Version,
		Title:       n.Title,
		Content:     n.Content,
		ContentType: n.ContentType,
		WordCount:   n.WordCount,
		SavedBy:     uid,
	}
}

func TestNoteRepository_ApplyContentUpdate_CAS(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	versionRepo := NewNoteVersionRepository(d)
	ctx := context.Background()

	note := createTestNote(t, repo, 1, nil)
	dump.P(note)

	// 版本不匹配时不生效
	applied, err := repo.ApplyContentUpdate(ctx, note.ID, 99,
		map[string]interface{}{"content": "lost update"}, contentSnapshot(note, 1))
	require.NoError(t, err)
	assert.False(t, applied)

	unchanged, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "initial content", unchanged.Content)
	assert.Equal(t, int64(1), unchanged.Version)

	// 冲突的更新不会留下快照
	count, err := versionRepo.CountByNoteID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 版本匹配时生效
	applied, err = repo.ApplyContentUpdate(ctx, note.ID, 1,
		map[string]interface{}{"content": "updated content"}, contentSnapshot(note, 1))
	require.NoError(t, err)
	assert.True(t, applied)

	updated, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated content", updated.Content)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, int64(1), updated.EditCount)

	// 快照保存被替换的版本
	snap, err := versionRepo.GetByVersion(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "initial content", snap.Content)

	// 基于旧版本的并发写被拒绝
	applied, err = repo.ApplyContentUpdate(ctx, note.ID, 1,
		map[string]interface{}{"content": "stale write"}, contentSnapshot(updated, 2))
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestNoteRepository_ApplyContentUpdate_DeletedNote(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	note := createTestNote(t, repo, 1, nil)
	require.NoError(t, repo.SoftDelete(ctx, note, time.Now()))

	applied, err := repo.ApplyContentUpdate(ctx, note.ID, 1,
		map[string]interface{}{"content": "x"}, contentSnapshot(note, 1))
	require.NoError(t, err)
	assert.False(t, applied, "content updates must not apply to trashed notes")
}

func TestNoteRepository_VersionHistoryFIFO(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	versionRepo := NewNoteVersionRepository(d)
	ctx := context.Background()

	note := createTestNote(t, repo, 1, nil)

	// 连续更新 12 次，产生 12 个快照
	current := note
	for i := 0; i < 12; i++ {
		applied, err := repo.ApplyContentUpdate(ctx, note.ID, current.Version,
			map[string]interface{}{"content": fmt.Sprintf("content %d", i)},
			contentSnapshot(current, 1))
		require.NoError(t, err)
		require.True(t, applied)

		current, err = repo.GetByID(ctx, note.ID)
		require.NoError(t, err)
	}

	// 只保留最近的上限个快照
	count, err := versionRepo.CountByNoteID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxVersionsPerNote), count)

	versions, err := versionRepo.ListByNoteID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, versions, domain.MaxVersionsPerNote)

	// 按版本号降序，最旧的 v1、v2 已被淘汰
	assert.Equal(t, int64(12), versions[0].Version)
	assert.Equal(t, int64(3), versions[len(versions)-1].Version)

	_, err = versionRepo.GetByVersion(ctx, note.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNoteRepository_TagUsageLifecycle(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	tagRepo := NewTagRepository(d)
	ctx := context.Background()

	usage := func(name string) int64 {
		tag, err := tagRepo.GetByName(ctx, 1, name)
		if err != nil {
			return -1
		}
		return tag.UsageCount
	}

	// 创建笔记时建立标签并计数
	note := createTestNote(t, repo, 1, []string{"go", "notes"})
	assert.Equal(t, int64(1), usage("go"))
	assert.Equal(t, int64(1), usage("notes"))

	// 第二篇笔记共享标签
	note2 := createTestNote(t, repo, 1, []string{"go"})
	assert.Equal(t, int64(2), usage("go"))

	// 移入回收站递减
	require.NoError(t, repo.SoftDelete(ctx, note, time.Now()))
	assert.Equal(t, int64(1), usage("go"))
	assert.Equal(t, int64(0), usage("notes"))

	// 恢复递增
	require.NoError(t, repo.Restore(ctx, note))
	assert.Equal(t, int64(2), usage("go"))
	assert.Equal(t, int64(1), usage("notes"))

	// 元数据更新调整差集
	err := repo.UpdateFields(ctx, note.ID, map[string]interface{}{
		"tags": []string{"go", "ideas"},
	}, []string{"go", "notes"}, []string{"go", "ideas"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage("go"))
	assert.Equal(t, int64(0), usage("notes"))
	assert.Equal(t, int64(1), usage("ideas"))

	// 清理零计数标签
	removed, err := tagRepo.DeleteUnused(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, err = tagRepo.GetByName(ctx, 1, "notes")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_ = note2
}

func TestNoteRepository_PurgeCascade(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	versionRepo := NewNoteVersionRepository(d)
	collabRepo := NewCollaboratorRepository(d)
	ctx := context.Background()

	note := createTestNote(t, repo, 1, nil)

	_, err := collabRepo.Create(ctx, &domain.Collaborator{
		NoteID: note.ID, UID: 2, Permission: domain.PermissionEdit, AddedBy: 1,
	})
	require.NoError(t, err)

	applied, err := repo.ApplyContentUpdate(ctx, note.ID, 1,
		map[string]interface{}{"content": "v2"}, contentSnapshot(note, 1))
	require.NoError(t, err)
	require.True(t, applied)

	require.NoError(t, repo.Purge(ctx, note.ID))

	_, err = repo.GetByID(ctx, note.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := versionRepo.CountByNoteID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	collaborators, err := collabRepo.ListByNoteID(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, collaborators)
}

func TestNoteRepository_PurgeDeletedBefore(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	oldNote := createTestNote(t, repo, 1, nil)
	recentNote := createTestNote(t, repo, 1, nil)
	liveNote := createTestNote(t, repo, 1, nil)

	require.NoError(t, repo.SoftDelete(ctx, oldNote, time.Now().Add(-48*time.Hour)))
	require.NoError(t, repo.SoftDelete(ctx, recentNote, time.Now()))

	purged, err := repo.PurgeDeletedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByID(ctx, oldNote.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 最近删除与未删除的笔记保留
	if _, err := repo.GetByID(ctx, recentNote.ID); err != nil {
		t.Errorf("recently trashed note should survive: %v", err)
	}
	if _, err := repo.GetByID(ctx, liveNote.ID); err != nil {
		t.Errorf("live note should survive: %v", err)
	}
}

func TestNoteRepository_IncrShareViewCount(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	note := createTestNote(t, repo, 1, nil)

	viewedAt := time.Now()
	require.NoError(t, repo.IncrShareViewCount(ctx, note.ID, 3, viewedAt))

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)

	// 分享访问同时计入分享统计和笔记总浏览次数
	assert.Equal(t, int64(3), got.ShareViewCount)
	assert.Equal(t, int64(3), got.ViewCount)
	assert.False(t, got.LastViewedAt.IsZero())
}

func TestNoteRepository_ListByAuthor(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createTestNote(t, repo, 1, []string{"go"})
	}
	trashed := createTestNote(t, repo, 1, nil)
	require.NoError(t, repo.SoftDelete(ctx, trashed, time.Now()))
	createTestNote(t, repo, 2, nil)

	// 列表不含回收站和他人的笔记
	list, err := repo.ListByAuthor(ctx, 1, domain.NoteListFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	count, err := repo.CountByAuthor(ctx, 1, domain.NoteListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// 标签过滤
	list, err = repo.ListByAuthor(ctx, 1, domain.NoteListFilter{Tag: "go"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = repo.ListByAuthor(ctx, 1, domain.NoteListFilter{Tag: "missing"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	// 回收站列表
	deleted, err := repo.ListDeleted(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
	assert.Equal(t, trashed.ID, deleted[0].ID)
}

func TestNoteRepository_ListCollaborating(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	collabRepo := NewCollaboratorRepository(d)
	ctx := context.Background()

	owned := createTestNote(t, repo, 1, nil)
	shared := createTestNote(t, repo, 2, nil)

	_, err := collabRepo.Create(ctx, &domain.Collaborator{
		NoteID: shared.ID, UID: 1, Permission: domain.PermissionView, AddedBy: 2,
	})
	require.NoError(t, err)

	list, err := repo.ListCollaborating(ctx, 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shared.ID, list[0].ID)

	count, err := repo.CountCollaborating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_ = owned
}

func TestCategoryRepository_DeleteTree(t *testing.T) {
	d := newTestDao(t)
	catRepo := NewCategoryRepository(d)
	noteRepo := NewNoteRepository(d)
	ctx := context.Background()

	root, err := catRepo.Create(ctx, &domain.Category{UID: 1, Name: "root"})
	require.NoError(t, err)
	child, err := catRepo.Create(ctx, &domain.Category{UID: 1, Name: "child", ParentID: root.ID})
	require.NoError(t, err)
	grandchild, err := catRepo.Create(ctx, &domain.Category{UID: 1, Name: "grandchild", ParentID: child.ID})
	require.NoError(t, err)
	other, err := catRepo.Create(ctx, &domain.Category{UID: 1, Name: "other"})
	require.NoError(t, err)

	note, err := noteRepo.Create(ctx, &domain.Note{
		AuthorUID: 1, Title: "n", CategoryID: grandchild.ID, Version: 1,
	})
	require.NoError(t, err)

	deleted, err := catRepo.DeleteTree(ctx, root.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	// 子树全部删除，无关分类保留
	remaining, err := catRepo.ListByUID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ID)

	// 关联笔记归零分类
	updated, err := noteRepo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.CategoryID)
}
