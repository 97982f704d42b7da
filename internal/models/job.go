package models

import (
	"time"

	"github.com/google/uuid"
)

type Table string

const (
	TableUploadContent Table = "upload_content"
	TableMovie         Table = "movie"
	TableShow          Table = "show"
	TableWebSeries     Table = "web_series"
	TableSeason        Table = "season"
	TableEpisode       Table = "episode"
)

// CompensationStep deletes one row by primary key. Deleting an absent row
// is a no-op, so steps can be replayed.
type CompensationStep struct {
	Table Table     `json:"table"`
	ID    uuid.UUID `json:"id"`
}

// CleanupJob carries compensation steps that could not be applied inline.
type CleanupJob struct {
	ID         uuid.UUID          `json:"id"`
	Reason     string             `json:"reason"`
	Steps      []CompensationStep `json:"steps"`
	RetryCount int                `json:"retry_count"`
	CreatedAt  time.Time          `json:"created_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type CatalogEvent struct {
	Action      string      `json:"action"` // "created" | "updated" | "deleted"
	PointerID   uuid.UUID   `json:"pointer_id"`
	ContentType ContentType `json:"content_type"`
}

type DemandEvent struct {
	DemandID    uuid.UUID   `json:"demand_id"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"content_type"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Pub/sub channels fanned out by the websocket hub.
const (
	ChannelCatalogUpdates = "catalog_updates"
	ChannelAdminUpdates   = "admin_updates"
)
