package models

import "time"

type Slide struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	TitleFr       *string   `json:"titleFr"`
	Subtitle      *string   `json:"subtitle"`
	SubtitleFr    *string   `json:"subtitleFr"`
	Description   *string   `gorm:"type:text" json:"description"`
	DescriptionFr *string   `gorm:"type:text" json:"descriptionFr"`
	ButtonText    *string   `json:"buttonText"`
	ButtonTextFr  *string   `json:"buttonTextFr"`
	ImageURL      string    `gorm:"not null" json:"imageUrl"`
	LinkURL       *string   `json:"linkUrl"`
	SortOrder     int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SlidePatch struct {
	Title         *string
	TitleFr       *string
	Subtitle      *string
	SubtitleFr    *string
	Description   *string
	DescriptionFr *string
	ButtonText    *string
	ButtonTextFr  *string
	ImageURL      *string
	LinkURL       *string
	SortOrder     *int
}

func (s *Slide) Apply(p SlidePatch) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.TitleFr != nil {
		s.TitleFr = p.TitleFr
	}
	if p.Subtitle != nil {
		s.Subtitle = p.Subtitle
	}
	if p.SubtitleFr != nil {
		s.SubtitleFr = p.SubtitleFr
	}
	if p.Description != nil {
		s.Description = p.Description
	}
	if p.DescriptionFr != nil {
		s.DescriptionFr = p.DescriptionFr
	}
	if p.ButtonText != nil {
		s.ButtonText = p.ButtonText
	}
	if p.ButtonTextFr != nil {
		s.ButtonTextFr = p.ButtonTextFr
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
	if p.LinkURL != nil {
		s.LinkURL = p.LinkURL
	}
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
}
