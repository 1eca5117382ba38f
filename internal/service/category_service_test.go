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

type categoryMockRepo struct {
	domain.CategoryRepository
	categories map[int64]*domain.Category
	nextID     int64

	deletedTrees []int64
}

func newCategoryMockRepo(categories ...*domain.Category) *categoryMockRepo {
	m := &categoryMockRepo{categories: make(map[int64]*domain.Category), nextID: 1}
	for _, c := range categories {
		m.categories[c.ID] = c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *categoryMockRepo) GetByID(ctx context.Context, id, uid int64) (*domain.Category, error) {
	if c, ok := m.categories[id]; ok && c.UID == uid {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *categoryMockRepo) ListByUID(ctx context.Context, uid int64) ([]*domain.Category, error) {
	list := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if c.UID == uid {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *categoryMockRepo) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	c.ID = m.nextID
	m.nextID++
	m.categories[c.ID] = c
	return c, nil
}

func (m *categoryMockRepo) Update(ctx context.Context, c *domain.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *categoryMockRepo) DeleteTree(ctx context.Context, id, uid int64) (int64, error) {
	m.deletedTrees = append(m.deletedTrees, id)
	delete(m.categories, id)
	return 1, nil
}

// --- Tests ---

func TestCategoryService_Create(t *testing.T) {
	repo := newCategoryMockRepo(&domain.Category{ID: 1, UID: 10, Name: "work"})
	svc := NewCategoryService(repo, zap.NewNop())
	ctx := context.Background()

	got, err := svc.Create(ctx, 10, &dto.CategoryCreateRequest{Name: "projects", ParentID: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ParentID != 1 {
		t.Errorf("ParentID = %d, want 1", got.ParentID)
	}

	// 父级不存在
	_, err = svc.Create(ctx, 10, &dto.CategoryCreateRequest{Name: "x", ParentID: 99})
	assertCode(t, err, code.ErrorCategoryParentNotFound)

	// 不能挂到别人的分类下
	_, err = svc.Create(ctx, 20, &dto.CategoryCreateRequest{Name: "x", ParentID: 1})
	assertCode(t, err, code.ErrorCategoryParentNotFound)
}

func TestCategoryService_Update_CycleDetection(t *testing.T) {
	// a(1) <- b(2) <- c(3)
	repo := newCategoryMockRepo(
		&domain.Category{ID: 1, UID: 10, Name: "a"},
		&domain.Category{ID: 2, UID: 10, Name: "b", ParentID: 1},
		&domain.Category{ID: 3, UID: 10, Name: "c", ParentID: 2},
	)
	svc := NewCategoryService(repo, zap.NewNop())
	ctx := context.Background()

	parent := int64(1)
	self := int64(1)
	descendant := int64(3)

	// 挂到自己下面
	_, err := svc.Update(ctx, 10, 1, &dto.CategoryUpdateRequest{ParentID: &self})
	assertCode(t, err, code.ErrorCategoryCycle)

	// 挂到自己的子孙下面
	_, err = svc.Update(ctx, 10, 1, &dto.CategoryUpdateRequest{ParentID: &descendant})
	assertCode(t, err, code.ErrorCategoryCycle)

	// 正常移动
	got, err := svc.Update(ctx, 10, 3, &dto.CategoryUpdateRequest{ParentID: &parent})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ParentID != 1 {
		t.Errorf("ParentID = %d, want 1", got.ParentID)
	}

	// 移到顶级
	root := int64(0)
	got, err = svc.Update(ctx, 10, 2, &dto.CategoryUpdateRequest{ParentID: &root})
	if err != nil {
		t.Fatalf("Update() to root error = %v", err)
	}
	if got.ParentID != 0 {
		t.Errorf("ParentID = %d, want 0", got.ParentID)
	}
}

func TestCategoryService_Update_Rename(t *testing.T) {
	repo := newCategoryMockRepo(&domain.Category{ID: 1, UID: 10, Name: "old"})
	svc := NewCategoryService(repo, zap.NewNop())

	name := "new"
	got, err := svc.Update(context.Background(), 10, 1, &dto.CategoryUpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "new" {
		t.Errorf("Name = %q, want new", got.Name)
	}

	// 分类不存在
	_, err = svc.Update(context.Background(), 10, 99, &dto.CategoryUpdateRequest{Name: &name})
	assertCode(t, err, code.ErrorCategoryNotFound)
}

func TestCategoryService_Delete(t *testing.T) {
	repo := newCategoryMockRepo(&domain.Category{ID: 1, UID: 10, Name: "a"})
	svc := NewCategoryService(repo, zap.NewNop())
	ctx := context.Background()

	if err := svc.Delete(ctx, 10, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.deletedTrees) != 1 || repo.deletedTrees[0] != 1 {
		t.Errorf("deletedTrees = %v, want [1]", repo.deletedTrees)
	}

	assertCode(t, svc.Delete(ctx, 10, 1), code.ErrorCategoryNotFound)
}

// --- Tag service ---

type tagMockRepo struct {
	domain.TagRepository
	tags    []*domain.Tag
	cleaned int64
}

func (m *tagMockRepo) ListByUID(ctx context.Context, uid int64) ([]*domain.Tag, error) {
	return m.tags, nil
}

func (m *tagMockRepo) DeleteUnused(ctx context.Context, uid int64) (int64, error) {
	return m.cleaned, nil
}

func TestTagService(t *testing.T) {
	repo := &tagMockRepo{
		tags: []*domain.Tag{
			{ID: 1, UID: 10, Name: "go", UsageCount: 5},
			{ID: 2, UID: 10, Name: "notes", UsageCount: 1},
		},
		cleaned: 3,
	}
	svc := NewTagService(repo, zap.NewNop())
	ctx := context.Background()

	list, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "go" || list[0].UsageCount != 5 {
		t.Errorf("list = %+v", list)
	}

	removed, err := svc.Cleanup(ctx, 10)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
}
