package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
)

type railInvalidator interface {
	Invalidate(ctx context.Context)
}

// MutationService writes catalog entries as ordered, non-transactional
// chains of single-row operations. Create chains are journaled and undone
// in reverse on failure; undo steps that fail are queued for the cleanup
// worker.
type MutationService struct {
	stores CatalogStores
	rails  railInvalidator
	events EventPublisher
	queue  CleanupQueue
	log    *logrus.Entry
}

func NewMutationService(stores CatalogStores, rails railInvalidator, events EventPublisher, queue CleanupQueue, log *logrus.Entry) *MutationService {
	return &MutationService{
		stores: stores,
		rails:  rails,
		events: events,
		queue:  queue,
		log:    log.WithField("component", "mutations"),
	}
}

func (s *MutationService) CreateMovie(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error) {
	in.Type = models.ContentTypeMovie
	return s.create(ctx, "create_movie", in)
}

func (s *MutationService) CreateShow(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error) {
	in.Type = models.ContentTypeShow
	return s.create(ctx, "create_show", in)
}

func (s *MutationService) CreateWebSeries(ctx context.Context, in models.ContentInput) (*models.ContentPointer, error) {
	in.Type = models.ContentTypeWebSeries
	return s.create(ctx, "create_web_series", in)
}

func (s *MutationService) create(ctx context.Context, op string, in models.ContentInput) (*models.ContentPointer, error) {
	if err := validateContentInput(in); err != nil {
		return nil, err
	}

	j := &journal{}
	detailID, err := s.buildDetail(ctx, j, in)
	if err != nil {
		return nil, s.fail(ctx, op, j, err)
	}

	p := &models.ContentPointer{
		Title:       in.Title,
		ContentType: in.Type,
		Genre:       nonNilStrings(in.Genres),
		ContentID:   detailID,
	}
	if err := s.stores.Pointers.Create(ctx, p); err != nil {
		return nil, s.fail(ctx, op, j, atStep(string(models.TableUploadContent), err))
	}

	s.succeeded(ctx, op, "created", p)
	return p, nil
}

// Update patches an entry in place when the type is unchanged. On a type
// change the new chain is built first, the pointer is moved onto it, and only
// then is the old chain removed; a failure before the pointer moves undoes the
// new chain, a failure after it queues the old chain for cleanup.
func (s *MutationService) Update(ctx context.Context, pointerID uuid.UUID, in models.ContentInput) (*models.ContentPointer, error) {
	if err := validateContentInput(in); err != nil {
		return nil, err
	}

	p, err := s.getPointer(ctx, pointerID)
	if err != nil {
		return nil, err
	}

	if p.ContentType == in.Type {
		if err := s.patchDetail(ctx, p, in); err != nil {
			if nf, ok := err.(*NotFoundError); ok {
				return nil, nf
			}
			return nil, s.fail(ctx, "update", nil, err)
		}
		p.Title = in.Title
		p.Genre = nonNilStrings(in.Genres)
		if err := s.stores.Pointers.Update(ctx, p); err != nil {
			return nil, s.fail(ctx, "update", nil, atStep(string(models.TableUploadContent), err))
		}
		s.succeeded(ctx, "update", "updated", p)
		return p, nil
	}

	oldType, oldContentID := p.ContentType, p.ContentID

	j := &journal{}
	newID, err := s.buildDetail(ctx, j, in)
	if err != nil {
		return nil, s.fail(ctx, "change_type", j, err)
	}

	moved := *p
	moved.Title = in.Title
	moved.ContentType = in.Type
	moved.ContentID = newID
	moved.Genre = nonNilStrings(in.Genres)
	if err := s.stores.Pointers.Update(ctx, &moved); err != nil {
		return nil, s.fail(ctx, "change_type", j, atStep(string(models.TableUploadContent), err))
	}

	cleanupCtx := context.WithoutCancel(ctx)
	steps, err := s.planChainDelete(cleanupCtx, oldType, oldContentID)
	if err != nil {
		s.log.WithError(err).WithField("content_id", oldContentID).Error("could not read replaced chain, leaving it for the orphan audit")
	} else if done, err := s.runSteps(cleanupCtx, steps); err != nil {
		s.enqueueCleanup(cleanupCtx, "change_type: remove replaced chain", steps[done:])
	}

	s.succeeded(ctx, "change_type", "updated", &moved)
	return &moved, nil
}

// Delete removes an entry's chain children first, then the pointer. A
// failure stops the sequence and is returned; nothing is rolled back.
func (s *MutationService) Delete(ctx context.Context, pointerID uuid.UUID) error {
	p, err := s.getPointer(ctx, pointerID)
	if err != nil {
		return err
	}

	steps, err := s.planChainDelete(ctx, p.ContentType, p.ContentID)
	if err != nil {
		return s.fail(ctx, "delete", nil, atStep("read "+string(p.ContentType), err))
	}
	steps = append(steps, models.CompensationStep{Table: models.TableUploadContent, ID: p.ID})

	if done, err := s.runSteps(ctx, steps); err != nil {
		return s.fail(ctx, "delete", nil, atStep(string(steps[done].Table), err))
	}

	s.succeeded(ctx, "delete", "deleted", p)
	return nil
}

// IncrementViews bumps a movie's view counter.
func (s *MutationService) IncrementViews(ctx context.Context, pointerID uuid.UUID) (int, error) {
	p, err := s.getPointer(ctx, pointerID)
	if err != nil {
		return 0, err
	}
	if p.ContentType != models.ContentTypeMovie {
		return 0, &ValidationError{Fields: map[string]string{"type": "Views are tracked for movies only"}}
	}

	views, err := s.stores.Movies.IncrementViews(ctx, p.ContentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &NotFoundError{Message: "Content not found"}
		}
		return 0, err
	}
	return views, nil
}

func (s *MutationService) getPointer(ctx context.Context, id uuid.UUID) (*models.ContentPointer, error) {
	p, err := s.stores.Pointers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Content not found"}
		}
		return nil, err
	}
	return p, nil
}

// buildDetail inserts the detail chain for in, children first, and returns
// the id the pointer must reference.
func (s *MutationService) buildDetail(ctx context.Context, j *journal, in models.ContentInput) (uuid.UUID, error) {
	switch in.Type {
	case models.ContentTypeMovie:
		movie := movieFromInput(in)
		if err := s.stores.Movies.Create(ctx, movie); err != nil {
			return uuid.Nil, atStep(string(models.TableMovie), err)
		}
		j.record(models.TableMovie, movie.ContentID)
		return movie.ContentID, nil

	case models.ContentTypeShow:
		episodeIDs, err := s.createEpisodes(ctx, j, in.Episodes)
		if err != nil {
			return uuid.Nil, err
		}
		show := showFromInput(in)
		show.EpisodeIDList = episodeIDs
		if err := s.stores.Shows.Create(ctx, show); err != nil {
			return uuid.Nil, atStep(string(models.TableShow), err)
		}
		j.record(models.TableShow, show.ID)
		return show.ID, nil

	case models.ContentTypeWebSeries:
		seasonIDs := make([]uuid.UUID, 0, len(in.Seasons))
		for _, seasonIn := range in.Seasons {
			episodeIDs, err := s.createEpisodes(ctx, j, seasonIn.Episodes)
			if err != nil {
				return uuid.Nil, err
			}
			season := seasonFromInput(in, seasonIn)
			season.EpisodeIDList = episodeIDs
			if err := s.stores.Seasons.Create(ctx, season); err != nil {
				return uuid.Nil, atStep(string(models.TableSeason), err)
			}
			j.record(models.TableSeason, season.SeasonID)
			seasonIDs = append(seasonIDs, season.SeasonID)
		}
		series := &models.WebSeriesDetail{SeasonIDList: seasonIDs}
		if err := s.stores.WebSeries.Create(ctx, series); err != nil {
			return uuid.Nil, atStep(string(models.TableWebSeries), err)
		}
		j.record(models.TableWebSeries, series.ContentID)
		return series.ContentID, nil
	}

	return uuid.Nil, fmt.Errorf("%w: %q", errUnknownType, in.Type)
}

func (s *MutationService) createEpisodes(ctx context.Context, j *journal, inputs []models.EpisodeInput) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, epIn := range inputs {
		episode := &models.Episode{
			Title:        epIn.Title,
			Duration:     epIn.Duration,
			Description:  epIn.Description,
			VideoURL:     epIn.VideoURL,
			ThumbnailURL: epIn.ThumbnailURL,
		}
		if err := s.stores.Episodes.Create(ctx, episode); err != nil {
			return nil, atStep(string(models.TableEpisode), err)
		}
		j.record(models.TableEpisode, episode.EpisodeID)
		ids = append(ids, episode.EpisodeID)
	}
	return ids, nil
}

// patchDetail applies a same-type update. Web series keep their seasons and
// have no series-level fields, so only the pointer changes for them.
func (s *MutationService) patchDetail(ctx context.Context, p *models.ContentPointer, in models.ContentInput) error {
	var (
		table models.Table
		err   error
	)
	switch p.ContentType {
	case models.ContentTypeMovie:
		movie := movieFromInput(in)
		movie.ContentID = p.ContentID
		table, err = models.TableMovie, s.stores.Movies.Update(ctx, movie)
	case models.ContentTypeShow:
		show := showFromInput(in)
		show.ID = p.ContentID
		table, err = models.TableShow, s.stores.Shows.Update(ctx, show)
	default:
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Content not found"}
	}
	return atStep(string(table), err)
}

// planChainDelete reads the chain behind a detail id and returns the deletes
// that remove it, children before parents. Rows already gone are left out.
func (s *MutationService) planChainDelete(ctx context.Context, contentType models.ContentType, contentID uuid.UUID) ([]models.CompensationStep, error) {
	var steps []models.CompensationStep

	switch contentType {
	case models.ContentTypeMovie:
		steps = append(steps, models.CompensationStep{Table: models.TableMovie, ID: contentID})

	case models.ContentTypeShow:
		show, err := s.stores.Shows.GetByID(ctx, contentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return steps, nil
		}
		if err != nil {
			return nil, err
		}
		for _, id := range show.EpisodeIDList {
			steps = append(steps, models.CompensationStep{Table: models.TableEpisode, ID: id})
		}
		steps = append(steps, models.CompensationStep{Table: models.TableShow, ID: show.ID})

	case models.ContentTypeWebSeries:
		series, err := s.stores.WebSeries.GetByContentID(ctx, contentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return steps, nil
		}
		if err != nil {
			return nil, err
		}
		for _, seasonID := range series.SeasonIDList {
			season, err := s.stores.Seasons.GetByID(ctx, seasonID)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				return nil, err
			}
			for _, id := range season.EpisodeIDList {
				steps = append(steps, models.CompensationStep{Table: models.TableEpisode, ID: id})
			}
			steps = append(steps, models.CompensationStep{Table: models.TableSeason, ID: season.SeasonID})
		}
		steps = append(steps, models.CompensationStep{Table: models.TableWebSeries, ID: series.ContentID})

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, contentType)
	}

	return steps, nil
}

// runSteps applies steps in order and stops at the first failure, returning
// the index of the failed step.
func (s *MutationService) runSteps(ctx context.Context, steps []models.CompensationStep) (int, error) {
	for i, step := range steps {
		if err := DeleteRow(ctx, s.stores, step); err != nil {
			return i, err
		}
	}
	return len(steps), nil
}

// fail undoes journaled writes, newest first, and wraps cause in a
// MutationError. Undo runs detached from ctx so a cancelled request still
// cleans up after itself.
func (s *MutationService) fail(ctx context.Context, op string, j *journal, cause error) error {
	metrics.Mutations.WithLabelValues(op, "error").Inc()

	merr := &MutationError{Op: op, Step: "unknown", Err: cause}
	var se *stepError
	if errors.As(cause, &se) {
		merr.Step = se.step
		merr.Err = se.err
	}

	if j != nil && len(j.steps) > 0 {
		undoCtx := context.WithoutCancel(ctx)
		for _, step := range j.reversed() {
			if err := DeleteRow(undoCtx, s.stores, step); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{"table": step.Table, "id": step.ID}).Warn("compensating delete failed")
				merr.Pending = append(merr.Pending, step)
				continue
			}
			metrics.Compensations.WithLabelValues("applied").Inc()
			merr.Compensated = append(merr.Compensated, step)
		}
		if len(merr.Pending) > 0 {
			s.enqueueCleanup(undoCtx, op+" at "+merr.Step, merr.Pending)
		}
	}

	s.log.WithError(merr.Err).WithFields(logrus.Fields{
		"op":          op,
		"step":        merr.Step,
		"compensated": len(merr.Compensated),
		"pending":     len(merr.Pending),
	}).Error("mutation failed")
	return merr
}

func (s *MutationService) enqueueCleanup(ctx context.Context, reason string, steps []models.CompensationStep) {
	if len(steps) == 0 {
		return
	}
	if s.queue == nil {
		metrics.Compensations.WithLabelValues("failed").Add(float64(len(steps)))
		s.log.WithField("rows", len(steps)).Error("no cleanup queue configured, rows left behind")
		return
	}

	job := &models.CleanupJob{Reason: reason, Steps: steps}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		metrics.Compensations.WithLabelValues("failed").Add(float64(len(steps)))
		s.log.WithError(err).WithField("rows", len(steps)).Error("failed to queue cleanup job, rows left behind")
		return
	}
	metrics.Compensations.WithLabelValues("queued").Add(float64(len(steps)))
	s.log.WithFields(logrus.Fields{"job_id": job.ID, "rows": len(steps)}).Info("cleanup job queued")
}

func (s *MutationService) succeeded(ctx context.Context, op, action string, p *models.ContentPointer) {
	metrics.Mutations.WithLabelValues(op, "ok").Inc()

	if s.rails != nil {
		s.rails.Invalidate(ctx)
	}
	if s.events != nil {
		err := s.events.Publish(ctx, models.ChannelCatalogUpdates, models.WSMessage{
			Type: "catalog_updated",
			Payload: models.CatalogEvent{
				Action:      action,
				PointerID:   p.ID,
				ContentType: p.ContentType,
			},
		})
		if err != nil {
			s.log.WithError(err).Warn("failed to publish catalog event")
		}
	}
}

func validateContentInput(in models.ContentInput) error {
	fieldErrors := make(map[string]string)

	if in.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if !in.Type.Valid() {
		fieldErrors["type"] = "Unknown content type"
	}
	if !models.ValidRatingType(in.RatingType) {
		fieldErrors["rating_type"] = "Unknown rating type"
	}
	if in.ReleaseYear < 0 {
		fieldErrors["release_year"] = "Release year cannot be negative"
	}
	if in.Rating < 0 {
		fieldErrors["rating"] = "Rating cannot be negative"
	}
	if in.Duration < 0 {
		fieldErrors["duration"] = "Duration cannot be negative"
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}

func movieFromInput(in models.ContentInput) *models.MovieDetail {
	return &models.MovieDetail{
		Description:  in.Description,
		ReleaseYear:  in.ReleaseYear,
		RatingType:   in.RatingType,
		Rating:       in.Rating,
		Duration:     in.Duration,
		Director:     nonNilStrings(in.Directors),
		Writer:       nonNilStrings(in.Writers),
		CastMembers:  nonNilStrings(in.Cast),
		ThumbnailURL: in.ThumbnailURL,
		TrailerURL:   in.TrailerURL,
		VideoURL:     in.VideoURL,
		FeatureIn:    nonNilStrings(in.FeaturedIn),
	}
}

func showFromInput(in models.ContentInput) *models.ShowDetail {
	return &models.ShowDetail{
		Title:        in.Title,
		Description:  in.Description,
		ReleaseYear:  in.ReleaseYear,
		RatingType:   in.RatingType,
		Rating:       in.Rating,
		ThumbnailURL: in.ThumbnailURL,
		TrailerURL:   in.TrailerURL,
		Genres:       nonNilStrings(in.Genres),
		Directors:    nonNilStrings(in.Directors),
		Writers:      nonNilStrings(in.Writers),
		CastMembers:  nonNilStrings(in.Cast),
		FeatureIn:    nonNilStrings(in.FeaturedIn),
	}
}

// seasonFromInput copies the series-level fields onto a season; the admin
// form only collects title and description per season.
func seasonFromInput(in models.ContentInput, seasonIn models.SeasonInput) *models.Season {
	return &models.Season{
		SeasonTitle:       seasonIn.Title,
		SeasonDescription: seasonIn.Description,
		ReleaseYear:       in.ReleaseYear,
		RatingType:        in.RatingType,
		Rating:            in.Rating,
		Director:          nonNilStrings(in.Directors),
		Writer:            nonNilStrings(in.Writers),
		CastMembers:       nonNilStrings(in.Cast),
		ThumbnailURL:      in.ThumbnailURL,
		TrailerURL:        in.TrailerURL,
		FeatureIn:         nonNilStrings(in.FeaturedIn),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
