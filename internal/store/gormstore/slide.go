package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) ListSlides(ctx context.Context) ([]models.Slide, error) {
	slides := make([]models.Slide, 0)
	err := r.DB.WithContext(ctx).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&slides).Error
	if err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *GormRepo) CreateSlide(ctx context.Context, s *models.Slide) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) UpdateSlide(ctx context.Context, id uint, patch models.SlidePatch) (*models.Slide, error) {
	var s models.Slide
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, id).Error; err != nil {
			return notFound(err, "slide", id)
		}
		s.Apply(patch)
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) DeleteSlide(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Slide{}, id).Error
}

func (r *GormRepo) CountSlides(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Slide{}).Count(&n).Error
	return n, err
}
