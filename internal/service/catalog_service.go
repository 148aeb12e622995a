package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogService manages the two admin-curated reference collections:
// categories and departments. Reads are public; mutation is admin only,
// enforced at the router.
type CatalogService struct {
	categories  repository.CategoryRepository
	departments repository.DepartmentRepository
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository, departments repository.DepartmentRepository) *CatalogService {
	return &CatalogService{categories: categories, departments: departments}
}

// CatalogInput is the shared payload for both collections.
type CatalogInput struct {
	Name        string
	Description string
}

// CreateCategory adds a category; duplicate names conflict.
func (s *CatalogService) CreateCategory(ctx context.Context, input CatalogInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": category.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateCategory renames or re-describes a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CatalogInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	category.Description = strings.TrimSpace(input.Description)

	if err := s.categories.Update(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": category.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return apperrors.MapError(s.categories.Delete(ctx, id))
}

// CreateDepartment adds a department; duplicate names conflict.
func (s *CatalogService) CreateDepartment(ctx context.Context, input CatalogInput) (*domain.Department, error) {
	dept := &domain.Department{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": dept.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns all departments ordered by name.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// GetDepartment fetches one department.
func (s *CatalogService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment renames or re-describes a department.
func (s *CatalogService) UpdateDepartment(ctx context.Context, id string, input CatalogInput) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	dept.Description = strings.TrimSpace(input.Description)

	if err := s.departments.Update(ctx, dept); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": dept.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DeleteDepartment removes a department.
func (s *CatalogService) DeleteDepartment(ctx context.Context, id string) error {
	return apperrors.MapError(s.departments.Delete(ctx, id))
}
