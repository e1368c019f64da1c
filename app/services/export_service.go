package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/repositories"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
	"github.com/shashiranjanraj/catalogapi/pkg/storage"
)

const exportDir = "exports"

// ExportService writes JSON snapshots of the catalog to a storage disk.
type ExportService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
	disk       storage.Disk
	now        func() time.Time
}

func NewExportService(db *gorm.DB, disk storage.Disk) *ExportService {
	return &ExportService{
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
		disk:       disk,
		now:        time.Now,
	}
}

// Export snapshots every category and product and stores the document
// under exports/catalog-<timestamp>-<id>.json.
func (s *ExportService) Export(ctx context.Context) (dto.ExportResult, error) {
	cs, err := s.categories.All(ctx)
	if err != nil {
		return dto.ExportResult{}, err
	}
	products, err := s.allProducts(ctx)
	if err != nil {
		return dto.ExportResult{}, err
	}

	at := s.now().UTC()
	snap := dto.CatalogSnapshot{
		ExportedAt: dto.NewDateTime(at),
		Categories: dto.Categories(cs),
		Products:   products,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return dto.ExportResult{}, fmt.Errorf("services: encode snapshot: %w", err)
	}

	path := fmt.Sprintf("%s/catalog-%s-%s.json", exportDir, at.Format("20060102T150405Z"), uuid.NewString()[:8])
	if err := s.disk.Put(ctx, path, &buf); err != nil {
		return dto.ExportResult{}, err
	}

	res := dto.ExportResult{
		Path:       path,
		URL:        s.disk.URL(path),
		Categories: len(snap.Categories),
		Products:   len(snap.Products),
	}
	logger.WithCtx(ctx).Info("catalog exported", "path", res.Path, "categories", res.Categories, "products", res.Products)
	return res, nil
}

// Exports lists previously written snapshots, oldest first.
func (s *ExportService) Exports(ctx context.Context) ([]string, error) {
	return s.disk.Files(ctx, exportDir)
}

func (s *ExportService) allProducts(ctx context.Context) ([]dto.Product, error) {
	out := []dto.Product{}
	req := orm.PageRequest{Size: orm.MaxPageSize}
	for {
		ps, page, err := s.products.Page(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			out = append(out, dto.ProductFromModel(p))
		}
		if req.Page >= page.LastPage {
			return out, nil
		}
		req.Page++
	}
}
