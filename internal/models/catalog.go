package models

// Aggregated views. The pointer fields are flattened into each item and the
// resolved detail hangs off the key matching its type.

type ShowView struct {
	ShowDetail
	Episodes []Episode `json:"episodes"`
}

type SeasonView struct {
	Season
	Episodes []Episode `json:"episodes"`
}

type WebSeriesView struct {
	WebSeriesDetail
	Seasons []SeasonView `json:"seasons"`
}

// CatalogItem is a fully resolved catalog entry.
type CatalogItem struct {
	ContentPointer
	Movie     *MovieDetail   `json:"movie,omitempty"`
	Show      *ShowView      `json:"show,omitempty"`
	WebSeries *WebSeriesView `json:"web_series,omitempty"`
}

// RailItem is a catalog entry resolved one level deep: shows come without
// episodes and web series without seasons.
type RailItem struct {
	ContentPointer
	Movie     *MovieDetail     `json:"movie,omitempty"`
	Show      *ShowDetail      `json:"show,omitempty"`
	WebSeries *WebSeriesDetail `json:"web_series,omitempty"`
}

type GroupedCatalog struct {
	Movies    []CatalogItem `json:"movies"`
	Shows     []CatalogItem `json:"shows"`
	WebSeries []CatalogItem `json:"web_series"`
}

// AdminContentRow is the flattened shape listed on the admin dashboard.
type AdminContentRow struct {
	ID           string       `json:"id"`
	ContentID    string       `json:"content_id"`
	Title        string       `json:"title"`
	Type         ContentType  `json:"type"`
	ReleaseYear  int          `json:"release_year"`
	RatingType   string       `json:"rating_type"`
	Rating       float64      `json:"rating"`
	Description  string       `json:"description"`
	Genres       []string     `json:"genres"`
	FeaturedIn   []string     `json:"featured_in"`
	ThumbnailURL string       `json:"thumbnail_url"`
	TrailerURL   string       `json:"trailer_url"`
	VideoURL     string       `json:"video_url"`
	Directors    []string     `json:"directors"`
	Writers      []string     `json:"writers"`
	Cast         []string     `json:"cast"`
	Duration     int          `json:"duration"`
	Views        int          `json:"views"`
	Seasons      []SeasonView `json:"seasons,omitempty"`
}

type AdminContentPage struct {
	Items      []AdminContentRow `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

type CatalogStats struct {
	TotalMovies    int `json:"total_movies"`
	TotalWebSeries int `json:"total_web_series"`
	TotalShows     int `json:"total_shows"`
	TotalViews     int `json:"total_views"`
}

type OrphanCounts struct {
	Episodes int `json:"episodes"`
	Seasons  int `json:"seasons"`
}
