package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/erp/tilestock/internal/domain/catalog"
	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxImageSize is the upload limit when none is configured (5 MiB)
const DefaultMaxImageSize int64 = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStorage stores product images
type ImageStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// ProductReferenceChecker reports whether something still references a product
type ProductReferenceChecker interface {
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	references   []ProductReferenceChecker
	storage      ImageStorage
	maxImageSize int64
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger, references ...ProductReferenceChecker) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		references:   references,
		maxImageSize: DefaultMaxImageSize,
		logger:       logger,
	}
}

// SetImageStorage enables image uploads
func (s *ProductService) SetImageStorage(storage ImageStorage, maxSize int64) {
	s.storage = storage
	if maxSize > 0 {
		s.maxImageSize = maxSize
	}
}

// List lists products
func (s *ProductService) List(ctx context.Context, f ProductListFilter) (shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = strings.TrimSpace(f.Search)
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, strings.ToUpper(strings.TrimSpace(req.SKU)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.apply(product)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product that nothing references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	for _, ref := range s.references {
		inUse, err := ref.ExistsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("PRODUCT_IN_USE", "Product has stock or orders and cannot be deleted")
		}
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// UploadImage stores an image for the product and records its URL
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, size int64, body io.Reader) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Image storage is not configured")
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
	}
	if size <= 0 || size > s.maxImageSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Image must be between 1 byte and %d bytes", s.maxImageSize))
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" || e == ext {
		ext = e
	}
	key := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New(), ext)
	if err := s.storage.Upload(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	product.SetImageURL(s.storage.ObjectURL(key))
	if err := s.productRepo.Save(ctx, product); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned product image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("product image uploaded", zap.String("product_id", product.ID.String()), zap.String("key", key))
	resp := ToProductResponse(product)
	return &resp, nil
}
