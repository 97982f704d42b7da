package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
)

const DemandRateLimitMessage = "You can only make one request every 30 minutes. Please try again later."

// DemandService admits at most one demand per identity per cooldown window.
// The recency check and the insert are separate statements, so two
// concurrent submissions from one identity can both be admitted.
type DemandService struct {
	store    DemandStore
	identity IdentityResolver
	events   EventPublisher
	cooldown time.Duration
	now      func() time.Time
	log      *logrus.Entry
}

func NewDemandService(store DemandStore, identity IdentityResolver, events EventPublisher, cooldown time.Duration, log *logrus.Entry) *DemandService {
	return &DemandService{
		store:    store,
		identity: identity,
		events:   events,
		cooldown: cooldown,
		now:      time.Now,
		log:      log.WithField("component", "demand"),
	}
}

func (s *DemandService) Submit(ctx context.Context, in models.DemandInput, remoteAddr string) (*models.DemandRequest, error) {
	fieldErrors := make(map[string]string)
	if in.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if !in.ContentType.Valid() {
		fieldErrors["content_type"] = "Unknown content type"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	ip := s.identity.Resolve(ctx, remoteAddr)
	now := s.now()

	recent, err := s.store.CountSince(ctx, ip, now.Add(-s.cooldown))
	if err != nil {
		return nil, fmt.Errorf("check recent demands: %w", err)
	}
	if recent > 0 {
		metrics.DemandDecisions.WithLabelValues("rate_limited").Inc()
		return nil, &RateLimitError{Message: DemandRateLimitMessage}
	}

	demand := &models.DemandRequest{
		Title:       in.Title,
		ContentType: in.ContentType,
		Description: in.Description,
		UserIP:      ip,
		CreatedAt:   now,
	}
	if err := s.store.Create(ctx, demand); err != nil {
		return nil, fmt.Errorf("create demand: %w", err)
	}
	metrics.DemandDecisions.WithLabelValues("accepted").Inc()

	if s.events != nil {
		err := s.events.Publish(ctx, models.ChannelAdminUpdates, models.WSMessage{
			Type: "demand_created",
			Payload: models.DemandEvent{
				DemandID:    demand.ID,
				Title:       demand.Title,
				ContentType: demand.ContentType,
			},
		})
		if err != nil {
			s.log.WithError(err).Warn("failed to publish demand event")
		}
	}

	return demand, nil
}

func (s *DemandService) List(ctx context.Context) ([]*models.DemandRequest, error) {
	demands, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if demands == nil {
		demands = []*models.DemandRequest{}
	}
	return demands, nil
}

func (s *DemandService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Demand not found"}
		}
		return err
	}
	return nil
}
