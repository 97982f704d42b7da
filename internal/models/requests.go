package models

type EpisodeInput struct {
	Title        string `json:"title"`
	Duration     int    `json:"duration"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type SeasonInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Episodes    []EpisodeInput `json:"episodes"`
}

// ContentInput is the admin form payload for every content type. Duration
// and VideoURL apply to movies, Episodes to shows, Seasons to web series.
type ContentInput struct {
	Type         ContentType    `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ReleaseYear  int            `json:"release_year"`
	RatingType   string         `json:"rating_type"`
	Rating       float64        `json:"rating"`
	Genres       []string       `json:"genres"`
	FeaturedIn   []string       `json:"featured_in"`
	ThumbnailURL string         `json:"thumbnail_url"`
	TrailerURL   string         `json:"trailer_url"`
	VideoURL     string         `json:"video_url"`
	Directors    []string       `json:"directors"`
	Writers      []string       `json:"writers"`
	Cast         []string       `json:"cast"`
	Duration     int            `json:"duration"`
	Episodes     []EpisodeInput `json:"episodes"`
	Seasons      []SeasonInput  `json:"seasons"`
}

type UpcomingInput struct {
	Title        string      `json:"title"`
	ContentType  ContentType `json:"content_type"`
	ReleaseDate  string      `json:"release_date"` // YYYY-MM-DD
	ContentOrder int         `json:"content_order"`
	Genres       []string    `json:"genres"`
	RatingType   string      `json:"rating_type"`
	Directors    []string    `json:"directors"`
	Writers      []string    `json:"writers"`
	Cast         []string    `json:"cast"`
	Description  string      `json:"description"`
	ThumbnailURL string      `json:"thumbnail_url"`
	TrailerURL   string      `json:"trailer_url"`
}

type DemandInput struct {
	Title       string      `json:"title"`
	ContentType ContentType `json:"content_type"`
	Description string      `json:"description"`
}

type AdminListQuery struct {
	Search    string
	Type      ContentType // empty means all
	SortViews string      // "", "asc", "desc"
	Page      int
}
