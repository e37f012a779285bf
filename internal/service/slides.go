package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type SlideService struct {
	Repo store.Slides
}

func (s *SlideService) List(ctx context.Context) ([]models.Slide, error) {
	return s.Repo.ListSlides(ctx)
}

func (s *SlideService) Create(ctx context.Context, req transport.SlideRequest) (*models.Slide, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	sl := &models.Slide{
		Title:         req.Title,
		TitleFr:       req.TitleFr,
		Subtitle:      req.Subtitle,
		SubtitleFr:    req.SubtitleFr,
		Description:   req.Description,
		DescriptionFr: req.DescriptionFr,
		ButtonText:    req.ButtonText,
		ButtonTextFr:  req.ButtonTextFr,
		ImageURL:      req.ImageURL,
		LinkURL:       req.LinkURL,
		SortOrder:     req.SortOrder,
	}
	if err := s.Repo.CreateSlide(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *SlideService) Update(ctx context.Context, id uint, req transport.UpdateSlideRequest) (*models.Slide, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	return s.Repo.UpdateSlide(ctx, id, models.SlidePatch{
		Title:         req.Title,
		TitleFr:       req.TitleFr,
		Subtitle:      req.Subtitle,
		SubtitleFr:    req.SubtitleFr,
		Description:   req.Description,
		DescriptionFr: req.DescriptionFr,
		ButtonText:    req.ButtonText,
		ButtonTextFr:  req.ButtonTextFr,
		ImageURL:      req.ImageURL,
		LinkURL:       req.LinkURL,
		SortOrder:     req.SortOrder,
	})
}

func (s *SlideService) Delete(ctx context.Context, id uint) error {
	return s.Repo.DeleteSlide(ctx, id)
}
