package models

import (
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeMovie     ContentType = "Movie"
	ContentTypeWebSeries ContentType = "Web Series"
	ContentTypeShow      ContentType = "Show"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeWebSeries, ContentTypeShow:
		return true
	}
	return false
}

var RatingTypes = []string{
	"G", "PG", "PG-13", "R", "NC-17",
	"TV-Y", "TV-Y7", "TV-G", "TV-PG", "TV-14", "TV-MA",
}

// ValidRatingType accepts the known rating labels and the empty string.
func ValidRatingType(rt string) bool {
	if rt == "" {
		return true
	}
	for _, v := range RatingTypes {
		if v == rt {
			return true
		}
	}
	return false
}

// Feature labels offered by the admin forms. Entertainment applies to shows.
var (
	BaseFeatureLabels = []string{
		"Home Hero",
		"Home New Release",
		"Home Popular",
		"Type Hero",
		"Type New Release",
		"Type Popular",
	}
	ShowFeatureLabels = append(append([]string{}, BaseFeatureLabels...), "Entertainment")
)

// ContentPointer is a row of upload_content. ContentID holds the primary key
// of the detail row for ContentType; nothing in the schema enforces it.
type ContentPointer struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"content_type"`
	Genre       []string    `json:"genre"`
	ContentID   uuid.UUID   `json:"content_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

type MovieDetail struct {
	ContentID    uuid.UUID `json:"content_id"`
	Description  string    `json:"description"`
	ReleaseYear  int       `json:"release_year"`
	RatingType   string    `json:"rating_type"`
	Rating       float64   `json:"rating"`
	Duration     int       `json:"duration"`
	Director     []string  `json:"director"`
	Writer       []string  `json:"writer"`
	CastMembers  []string  `json:"cast_members"`
	ThumbnailURL string    `json:"thumbnail_url"`
	TrailerURL   string    `json:"trailer_url"`
	VideoURL     string    `json:"video_url"`
	FeatureIn    []string  `json:"feature_in"`
	Views        int       `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

type ShowDetail struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ReleaseYear   int         `json:"release_year"`
	RatingType    string      `json:"rating_type"`
	Rating        float64     `json:"rating"`
	ThumbnailURL  string      `json:"thumbnail_url"`
	TrailerURL    string      `json:"trailer_url"`
	Genres        []string    `json:"genres"`
	Directors     []string    `json:"directors"`
	Writers       []string    `json:"writers"`
	CastMembers   []string    `json:"cast_members"`
	FeatureIn     []string    `json:"feature_in"`
	EpisodeIDList []uuid.UUID `json:"episode_id_list"`
	CreatedAt     time.Time   `json:"created_at"`
}

// WebSeriesDetail carries no presentation fields of its own; those live on
// each season.
type WebSeriesDetail struct {
	ContentID    uuid.UUID   `json:"content_id"`
	SeasonIDList []uuid.UUID `json:"season_id_list"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Season struct {
	SeasonID          uuid.UUID   `json:"season_id"`
	SeasonTitle       string      `json:"season_title"`
	SeasonDescription string      `json:"season_description"`
	ReleaseYear       int         `json:"release_year"`
	RatingType        string      `json:"rating_type"`
	Rating            float64     `json:"rating"`
	Director          []string    `json:"director"`
	Writer            []string    `json:"writer"`
	CastMembers       []string    `json:"cast_members"`
	ThumbnailURL      string      `json:"thumbnail_url"`
	TrailerURL        string      `json:"trailer_url"`
	FeatureIn         []string    `json:"feature_in"`
	EpisodeIDList     []uuid.UUID `json:"episode_id_list"`
	CreatedAt         time.Time   `json:"created_at"`
}

type Episode struct {
	EpisodeID    uuid.UUID `json:"episode_id"`
	Title        string    `json:"title"`
	Duration     int       `json:"duration"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}
