package service

import (
	"context"
	"testing"
)

func TestCatalogCategoryLifecycle(t *testing.T) {
	svc := NewCatalogService(newFakeCategoryRepo(), newFakeDepartmentRepo())
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CatalogInput{Name: "  Hardware ", Description: "physical kit"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Name != "Hardware" {
		t.Errorf("name = %q, want trimmed", category.Name)
	}

	_, err = svc.CreateCategory(ctx, CatalogInput{Name: "Hardware"})
	assertErrorCode(t, err, "CONFLICT")

	updated, err := svc.UpdateCategory(ctx, category.ID, CatalogInput{Name: "Peripherals"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Name != "Peripherals" {
		t.Errorf("name = %q", updated.Name)
	}

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	_, err = svc.GetCategory(ctx, category.ID)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCatalogDepartmentDuplicateName(t *testing.T) {
	svc := NewCatalogService(newFakeCategoryRepo(), newFakeDepartmentRepo())
	ctx := context.Background()

	if _, err := svc.CreateDepartment(ctx, CatalogInput{Name: "IT"}); err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	_, err := svc.CreateDepartment(ctx, CatalogInput{Name: "IT"})
	assertErrorCode(t, err, "CONFLICT")
}

func TestCatalogListsAreSorted(t *testing.T) {
	svc := NewCatalogService(newFakeCategoryRepo(), newFakeDepartmentRepo())
	ctx := context.Background()

	for _, name := range []string{"Networking", "Access", "Hardware"} {
		if _, err := svc.CreateCategory(ctx, CatalogInput{Name: name}); err != nil {
			t.Fatalf("CreateCategory(%s): %v", name, err)
		}
	}

	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("got %d categories, want 3", len(categories))
	}
	want := []string{"Access", "Hardware", "Networking"}
	for i, category := range categories {
		if category.Name != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, category.Name, want[i])
		}
	}
}
