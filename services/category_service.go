package services

import (
	"errors"
	"regexp"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

type CategoryService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewCategoryService(db *gorm.DB, log zerolog.Logger) *CategoryService {
	return &CategoryService{db: db, log: log}
}

var categoryTypePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (s *CategoryService) Create(in CategoryInput) (*models.Category, error) {
	var count int64
	s.db.Model(&models.Category{}).Where("name = ?", in.Name).Count(&count)
	if count > 0 {
		return nil, apperrors.New(apperrors.Conflict, "category name already exists: "+in.Name)
	}

	category := models.Category{Name: in.Name, Type: in.Type}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save category", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(categoryID string, in CategoryInput) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ?", categoryID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up category", err)
	}

	if category.Name != in.Name {
		var count int64
		s.db.Model(&models.Category{}).Where("name = ? AND id <> ?", in.Name, categoryID).Count(&count)
		if count > 0 {
			return nil, apperrors.New(apperrors.Conflict, "category name already exists: "+in.Name)
		}
	}

	category.Name = in.Name
	category.Type = in.Type
	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save category", err)
	}
	return &category, nil
}

// Delete removes the category together with the products it owns, so no
// product is ever left pointing at a missing category.
func (s *CategoryService) Delete(categoryID string) error {
	var category models.Category
	err := s.db.Where("id = ?", categoryID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "category not found")
		}
		return apperrors.Wrap(apperrors.Internal, "cannot look up category", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var productIDs []string
		if err := tx.Model(&models.Product{}).Where("category_id = ?", categoryID).Pluck("id", &productIDs).Error; err != nil {
			return apperrors.Wrap(apperrors.Internal, "cannot list category products", err)
		}
		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductImage{}).Error; err != nil {
				return apperrors.Wrap(apperrors.Internal, "cannot delete product images", err)
			}
			if err := tx.Where("id IN ?", productIDs).Delete(&models.Product{}).Error; err != nil {
				return apperrors.Wrap(apperrors.Internal, "cannot delete category products", err)
			}
		}
		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.Internal, "cannot delete category", err)
		}
		return nil
	})
}

func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot list categories", err)
	}
	return categories, nil
}

func (s *CategoryService) FindByType(categoryType string) ([]models.Category, error) {
	if !categoryTypePattern.MatchString(categoryType) {
		return nil, apperrors.New(apperrors.Validation, "category type is invalid")
	}
	var categories []models.Category
	if err := s.db.Where("type = ?", categoryType).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot list categories", err)
	}
	if len(categories) == 0 {
		return nil, apperrors.New(apperrors.NotFound, "no categories of type "+categoryType)
	}
	return categories, nil
}
