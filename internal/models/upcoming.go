package models

import (
	"time"

	"github.com/google/uuid"
)

// UpcomingAnnouncement lives independently of the catalog. ContentOrder is a
// display rank chosen by the admin and may repeat.
type UpcomingAnnouncement struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	ContentType  ContentType `json:"content_type"`
	ReleaseDate  time.Time   `json:"release_date"`
	ContentOrder int         `json:"content_order"`
	Genre        []string    `json:"genre"`
	RatingType   string      `json:"rating_type"`
	Directors    []string    `json:"directors"`
	Writers      []string    `json:"writers"`
	CastMembers  []string    `json:"cast_members"`
	Description  string      `json:"description"`
	ThumbnailURL string      `json:"thumbnail_url"`
	TrailerURL   string      `json:"trailer_url"`
	CreatedAt    time.Time   `json:"created_at"`
}

type DemandRequest struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"content_type"`
	Description string      `json:"description"`
	UserIP      string      `json:"user_ip"`
	CreatedAt   time.Time   `json:"created_at"`
}
