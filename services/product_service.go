package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

const (
	productCacheKey = "products"
	productCacheTTL = 5 * time.Minute
)

type ProductService struct {
	db  *gorm.DB
	rdb *redis.Client
	log zerolog.Logger
}

func NewProductService(db *gorm.DB, rdb *redis.Client, log zerolog.Logger) *ProductService {
	return &ProductService{db: db, rdb: rdb, log: log}
}

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	SKU         string   `json:"sku" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price" binding:"required"`
	Quantity    int      `json:"quantity"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
	CategoryID  string   `json:"categoryID" binding:"required"`
	IsFeatured  bool     `json:"isFeatured"`
}

func (s *ProductService) Create(in ProductInput) (*models.Product, error) {
	if in.Price < 0 || in.Quantity < 0 {
		return nil, apperrors.New(apperrors.Validation, "price and quantity must not be negative")
	}

	var count int64
	s.db.Model(&models.Product{}).Where("sku = ?", in.SKU).Count(&count)
	if count > 0 {
		return nil, apperrors.New(apperrors.Conflict, "sku already exists")
	}

	var category models.Category
	if err := s.db.Where("id = ?", in.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up category", err)
	}

	product := models.Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Thumbnail:   in.Thumbnail,
		CategoryID:  in.CategoryID,
		IsFeatured:  in.IsFeatured,
	}
	for _, url := range in.Images {
		product.Images = append(product.Images, models.ProductImage{URL: url})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save product", err)
	}
	s.invalidateCache()
	return &product, nil
}

func (s *ProductService) Update(productID string, in ProductInput) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Images").Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up product", err)
	}

	if product.SKU != in.SKU {
		var count int64
		s.db.Model(&models.Product{}).Where("sku = ? AND id <> ?", in.SKU, productID).Count(&count)
		if count > 0 {
			return nil, apperrors.New(apperrors.Conflict, "sku already exists")
		}
	}

	var category models.Category
	if err := s.db.Where("id = ?", in.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up category", err)
	}

	product.Name = in.Name
	product.SKU = in.SKU
	product.Description = in.Description
	product.Brand = in.Brand
	product.Price = in.Price
	product.Quantity = in.Quantity
	product.Thumbnail = in.Thumbnail
	product.CategoryID = in.CategoryID
	product.IsFeatured = in.IsFeatured

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		product.Images = nil
		for _, url := range in.Images {
			product.Images = append(product.Images, models.ProductImage{ProductID: product.ID, URL: url})
		}
		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save product", err)
	}

	s.invalidateCache()
	return &product, nil
}

func (s *ProductService) Delete(productID string) error {
	result := s.db.Where("id = ?", productID).Delete(&models.Product{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.NotFound, "product not found")
	}
	s.invalidateCache()
	return nil
}

func (s *ProductService) GetByID(productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Images").Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up product", err)
	}
	return &product, nil
}

type ProductListFilter struct {
	Name       string
	CategoryID string
	Page       int
	Size       int
	Descending bool
}

// List serves the catalog. The unfiltered first page is cached in Redis as
// JSON and rebuilt from the database on a miss; a cache failure silently
// falls through to the database.
func (s *ProductService) List(filter ProductListFilter) ([]models.Product, error) {
	cacheable := filter.Name == "" && filter.CategoryID == "" && filter.Page == 0 && !filter.Descending

	if cacheable && s.rdb != nil {
		cached, err := s.rdb.Get(context.Background(), productCacheKey).Result()
		if err == nil {
			var products []models.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				return limitProducts(products, filter.Size), nil
			}
		}
	}

	query := s.db.Preload("Images")
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Descending {
		query = query.Order("created_at DESC")
	} else {
		query = query.Order("created_at")
	}
	if filter.Size > 0 && !cacheable {
		query = query.Limit(filter.Size).Offset(filter.Page * filter.Size)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot list products", err)
	}

	if cacheable && s.rdb != nil {
		if payload, err := json.Marshal(products); err == nil {
			if err := s.rdb.Set(context.Background(), productCacheKey, payload, productCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("cannot cache product list")
			}
		}
	}

	return limitProducts(products, filter.Size), nil
}

func limitProducts(products []models.Product, size int) []models.Product {
	if size > 0 && len(products) > size {
		return products[:size]
	}
	return products
}

func (s *ProductService) invalidateCache() {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), productCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("cannot invalidate product cache")
	}
}
