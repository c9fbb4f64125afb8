package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"
)

type CatalogService struct {
	repo   CatalogRepository
	images ImageStore
	log    *logger.Logger
}

func NewCatalogService(repo CatalogRepository, images ImageStore, log *logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, images: images, log: log}
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx, includeInactive)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) UploadCategoryImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error) {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return "", err
	}
	url, err := s.saveImage(ctx, fmt.Sprintf("category_%d", id), filename, contentType, r)
	if err != nil {
		return "", err
	}
	return url, s.repo.UpdateCategoryImage(ctx, id, url)
}

func (s *CatalogService) CreateItem(ctx context.Context, item *domain.FoodItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetCategory(ctx, item.CategoryID); err != nil {
		return fmt.Errorf("category %d: %w", item.CategoryID, err)
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return err
	}
	s.log.Ctx(ctx).Action("create item").Info("food item created", "item_id", item.ID)
	return nil
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *CatalogService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListItems(ctx, filter)
}

func (s *CatalogService) UpdateItem(ctx context.Context, item *domain.FoodItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateItem(ctx, item)
}

func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *CatalogService) UploadItemImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error) {
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		return "", err
	}
	url, err := s.saveImage(ctx, fmt.Sprintf("food_%d", id), filename, contentType, r)
	if err != nil {
		return "", err
	}
	return url, s.repo.UpdateItemImage(ctx, id, url)
}

func (s *CatalogService) LowStock(ctx context.Context) ([]domain.FoodItem, error) {
	return s.repo.LowStock(ctx)
}

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func (s *CatalogService) saveImage(ctx context.Context, prefix, filename, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", domain.NewValidationError("image", "must be a jpg, png or webp file")
	}
	url, err := s.images.Save(ctx, prefix+ext, contentType, r)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}
