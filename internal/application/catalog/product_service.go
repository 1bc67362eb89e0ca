package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/social"
	"github.com/celuvia/backend/internal/infrastructure/storage"
)

// ProductService manages product listings and their size pricing
type ProductService struct {
	productRepo  catalog.ProductRepository
	storeRepo    catalog.StoreRepository
	categoryRepo catalog.CategoryRepository
	reviewRepo   catalog.ReviewRepository
	announcer    social.Announcer
	images       storage.ImageStorage
	baseURL      string
	logger       *zap.Logger
}

func NewProductService(
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	categoryRepo catalog.CategoryRepository,
	reviewRepo catalog.ReviewRepository,
	announcer social.Announcer,
	images storage.ImageStorage,
	baseURL string,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		announcer:    announcer,
		images:       images,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// Create lists a new product in one of the vendor's stores and
// announces it. The announcement is best effort and never fails the
// listing.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	store, err := s.findOwnedStore(ctx, input.StoreID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByStoreAndName(ctx, input.StoreID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check product name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}
	if exists {
		return nil, shared.NewDomainError("PRODUCT_NAME_TAKEN", "The store already lists a product with this name")
	}

	product, err := catalog.NewProduct(input.StoreID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	if input.CategoryName != "" {
		category, err := s.categoryRepo.GetOrCreateByName(ctx, input.CategoryName)
		if err != nil {
			s.logger.Error("Failed to resolve category", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
		}
		product.SetCategory(&category.ID)
	}

	size, err := catalog.NewSize(product.ID, input.SmallPrice, input.MediumPrice, input.LargePrice)
	if err != nil {
		return nil, err
	}
	product.Sizes = size

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.logger.Info("Product listed",
		zap.String("product_id", product.ID.String()),
		zap.String("store_id", store.ID.String()))

	s.announce(ctx, product, store)
	return product, nil
}

// Update edits a product in one of the vendor's stores
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*catalog.Product, error) {
	product, _, err := s.findOwnedProduct(ctx, input.ProductID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(input.Name, input.Description); err != nil {
		return nil, err
	}

	if input.CategoryName != "" {
		category, err := s.categoryRepo.GetOrCreateByName(ctx, input.CategoryName)
		if err != nil {
			s.logger.Error("Failed to resolve category", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
		}
		product.SetCategory(&category.ID)
	} else {
		product.SetCategory(nil)
	}

	if product.Sizes == nil {
		size, err := catalog.NewSize(product.ID, input.SmallPrice, input.MediumPrice, input.LargePrice)
		if err != nil {
			return nil, err
		}
		product.Sizes = size
	} else if err := product.Sizes.SetPrices(input.SmallPrice, input.MediumPrice, input.LargePrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}
	return product, nil
}

// Archive hides the product from the storefront but keeps its history
func (s *ProductService) Archive(ctx context.Context, productID, ownerID uuid.UUID) error {
	return s.setActive(ctx, productID, ownerID, false)
}

// Unarchive relists an archived product
func (s *ProductService) Unarchive(ctx context.Context, productID, ownerID uuid.UUID) error {
	return s.setActive(ctx, productID, ownerID, true)
}

func (s *ProductService) setActive(ctx context.Context, productID, ownerID uuid.UUID, active bool) error {
	product, _, err := s.findOwnedProduct(ctx, productID, ownerID)
	if err != nil {
		return err
	}

	if active {
		product.Unarchive()
	} else {
		product.Archive()
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product state", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}
	return nil
}

// Delete removes the product listing entirely
func (s *ProductService) Delete(ctx context.Context, productID, ownerID uuid.UUID) error {
	product, _, err := s.findOwnedProduct(ctx, productID, ownerID)
	if err != nil {
		return err
	}

	if product.ImageKey != "" {
		if err := s.images.DeleteObject(ctx, product.ImageKey); err != nil {
			s.logger.Warn("Failed to delete product image",
				zap.String("key", product.ImageKey), zap.Error(err))
		}
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

// GetDetail returns a product with its store and review summary
func (s *ProductService) GetDetail(ctx context.Context, productID uuid.UUID) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil {
		s.logger.Error("Product references missing store",
			zap.String("product_id", productID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load product")
	}

	avg, count, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load rating summary", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load product")
	}

	detail := &ProductDetail{
		Product:       *product,
		Store:         *store,
		AverageRating: avg,
		ReviewCount:   count,
	}
	if product.ImageKey != "" {
		url, _, err := s.images.GenerateDownloadURL(ctx, product.ImageKey, 0)
		if err != nil {
			s.logger.Warn("Failed to presign product image", zap.Error(err))
		} else {
			detail.ImageURL = url
		}
	}
	return detail, nil
}

// ListPublic returns the storefront product listing
func (s *ProductService) ListPublic(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	filter := catalog.ProductFilter{Filter: input.Filter, ActiveOnly: true}

	if input.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, input.CategorySlug)
		if err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		filter.CategoryID = &category.ID
	}

	products, total, err := s.productRepo.FindPublic(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	return &ProductPage{Products: products, Total: total}, nil
}

// ListForStore returns all of a store's products for its owner,
// archived ones included.
func (s *ProductService) ListForStore(ctx context.Context, storeID, ownerID uuid.UUID, filter shared.Filter) (*ProductPage, error) {
	if _, err := s.findOwnedStore(ctx, storeID, ownerID); err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		s.logger.Error("Failed to list store products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	return &ProductPage{Products: products, Total: total}, nil
}

// RequestImageUpload presigns an upload for a product image
func (s *ProductService) RequestImageUpload(ctx context.Context, input ImageUploadInput) (*ImageUploadResult, error) {
	if _, _, err := s.findOwnedProduct(ctx, input.ProductID, input.OwnerID); err != nil {
		return nil, err
	}

	key := storage.ProductImageKey(input.ProductID, input.Filename)
	url, _, err := s.images.GenerateUploadURL(ctx, key, input.ContentType, 15*time.Minute)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to prepare image upload")
	}
	return &ImageUploadResult{UploadURL: url, Key: key}, nil
}

// ConfirmImageUpload attaches an uploaded image to the product
func (s *ProductService) ConfirmImageUpload(ctx context.Context, productID, ownerID uuid.UUID, key string) error {
	product, _, err := s.findOwnedProduct(ctx, productID, ownerID)
	if err != nil {
		return err
	}

	exists, err := s.images.ObjectExists(ctx, key)
	if err != nil {
		s.logger.Error("Failed to check uploaded image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm image upload")
	}
	if !exists {
		return shared.NewDomainError("IMAGE_NOT_UPLOADED", "No image found at the given key")
	}

	previous := product.ImageKey
	if err := product.SetImageKey(key); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to attach image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm image upload")
	}

	if previous != "" && previous != key {
		if err := s.images.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced image", zap.String("key", previous), zap.Error(err))
		}
	}
	return nil
}

func (s *ProductService) announce(ctx context.Context, product *catalog.Product, store *catalog.Store) {
	productURL := fmt.Sprintf("%s/products/%s", s.baseURL, product.ID)
	if err := s.announcer.AnnounceProduct(ctx, product.Name, store.Name, productURL); err != nil {
		s.logger.Warn("Failed to announce product",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func (s *ProductService) findOwnedStore(ctx context.Context, storeID, ownerID uuid.UUID) (*catalog.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
	}
	if !store.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Store belongs to another vendor")
	}
	return store, nil
}

func (s *ProductService) findOwnedProduct(ctx context.Context, productID, ownerID uuid.UUID) (*catalog.Product, *catalog.Store, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	store, err := s.findOwnedStore(ctx, product.StoreID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return product, store, nil
}
