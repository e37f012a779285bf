package filestore

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func (s *Store) slideIndex(id uint) int {
	for i := range s.state.Slides {
		if s.state.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ListSlides(_ context.Context) ([]models.Slide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.state.Slides)
	if out == nil {
		out = []models.Slide{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateSlide(_ context.Context, sl *models.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	sl.ID = s.state.NextSlideID
	s.state.NextSlideID++
	if sl.CreatedAt.IsZero() {
		sl.CreatedAt = s.now()
	}
	s.state.Slides = append(s.state.Slides, *sl)
	return s.commit(prev)
}

func (s *Store) UpdateSlide(_ context.Context, id uint, patch models.SlidePatch) (*models.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.slideIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: slide %d", store.ErrNotFound, id)
	}
	s.state.Slides[i].Apply(patch)
	if err := s.commit(prev); err != nil {
		return nil, err
	}
	sl := s.state.Slides[i]
	return &sl, nil
}

func (s *Store) DeleteSlide(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.slideIndex(id)
	if i < 0 {
		return nil
	}
	s.state.Slides = slices.Delete(s.state.Slides, i, i+1)
	return s.commit(prev)
}

func (s *Store) CountSlides(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.state.Slides)), nil
}
