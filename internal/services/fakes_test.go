package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catalog-backend/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// memCatalog is an in-memory catalog implementing every store contract. It
// logs each write as "op table" and can fail the nth call of an op.
type memCatalog struct {
	mu    sync.Mutex
	clock time.Time

	pointers   map[uuid.UUID]*models.ContentPointer
	movies     map[uuid.UUID]*models.MovieDetail
	shows      map[uuid.UUID]*models.ShowDetail
	series     map[uuid.UUID]*models.WebSeriesDetail
	seasons    map[uuid.UUID]*models.Season
	episodes   map[uuid.UUID]*models.Episode
	upcoming   map[uuid.UUID]*models.UpcomingAnnouncement
	demands    map[uuid.UUID]*models.DemandRequest
	ops        []string
	calls      map[string]int
	failOn     map[string]int // "create episode" -> fail on that call number (1-based)
	failAlways map[string]error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		pointers:   map[uuid.UUID]*models.ContentPointer{},
		movies:     map[uuid.UUID]*models.MovieDetail{},
		shows:      map[uuid.UUID]*models.ShowDetail{},
		series:     map[uuid.UUID]*models.WebSeriesDetail{},
		seasons:    map[uuid.UUID]*models.Season{},
		episodes:   map[uuid.UUID]*models.Episode{},
		upcoming:   map[uuid.UUID]*models.UpcomingAnnouncement{},
		demands:    map[uuid.UUID]*models.DemandRequest{},
		calls:      map[string]int{},
		failOn:     map[string]int{},
		failAlways: map[string]error{},
	}
}

func (m *memCatalog) stores() CatalogStores {
	return CatalogStores{
		Pointers:  memPointers{m},
		Movies:    memMovies{m},
		Shows:     memShows{m},
		WebSeries: memSeries{m},
		Seasons:   memSeasons{m},
		Episodes:  memEpisodes{m},
	}
}

// step counts the call and returns the injected failure, if any. Reads are
// not logged; writes are.
func (m *memCatalog) step(op string, write bool) error {
	m.calls[op]++
	if err, ok := m.failAlways[op]; ok {
		return err
	}
	if n, ok := m.failOn[op]; ok && m.calls[op] == n {
		return fmt.Errorf("%s: %w", op, errStoreDown)
	}
	if write {
		m.ops = append(m.ops, op)
	}
	return nil
}

func (m *memCatalog) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memCatalog) opLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// --- seeding helpers ---

func (m *memCatalog) addPointer(title string, t models.ContentType, contentID uuid.UUID, genre ...string) *models.ContentPointer {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.ContentPointer{ID: uuid.New(), Title: title, ContentType: t, Genre: genre, ContentID: contentID, CreatedAt: m.tick()}
	m.pointers[p.ID] = p
	return p
}

func (m *memCatalog) addMovie(featureIn ...string) *models.MovieDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &models.MovieDetail{ContentID: uuid.New(), FeatureIn: featureIn, CreatedAt: m.tick()}
	m.movies[d.ContentID] = d
	return d
}

func (m *memCatalog) addEpisode(title string) *models.Episode {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &models.Episode{EpisodeID: uuid.New(), Title: title, CreatedAt: m.tick()}
	m.episodes[e.EpisodeID] = e
	return e
}

func (m *memCatalog) addShow(episodeIDs []uuid.UUID, featureIn ...string) *models.ShowDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.ShowDetail{ID: uuid.New(), EpisodeIDList: episodeIDs, FeatureIn: featureIn, CreatedAt: m.tick()}
	m.shows[s.ID] = s
	return s
}

func (m *memCatalog) addSeason(title string, episodeIDs []uuid.UUID) *models.Season {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Season{SeasonID: uuid.New(), SeasonTitle: title, EpisodeIDList: episodeIDs, CreatedAt: m.tick()}
	m.seasons[s.SeasonID] = s
	return s
}

func (m *memCatalog) addSeries(seasonIDs []uuid.UUID) *models.WebSeriesDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &models.WebSeriesDetail{ContentID: uuid.New(), SeasonIDList: seasonIDs, CreatedAt: m.tick()}
	m.series[w.ContentID] = w
	return w
}

func (m *memCatalog) rowCounts() map[models.Table]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[models.Table]int{
		models.TableUploadContent: len(m.pointers),
		models.TableMovie:         len(m.movies),
		models.TableShow:          len(m.shows),
		models.TableWebSeries:     len(m.series),
		models.TableSeason:        len(m.seasons),
		models.TableEpisode:       len(m.episodes),
	}
}

// --- pointers ---

type memPointers struct{ m *memCatalog }

func (s memPointers) sorted(filter func(*models.ContentPointer) bool) []*models.ContentPointer {
	var out []*models.ContentPointer
	for _, p := range s.m.pointers {
		if filter(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s memPointers) List(_ context.Context) ([]*models.ContentPointer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("list upload_content", false); err != nil {
		return nil, err
	}
	return s.sorted(func(*models.ContentPointer) bool { return true }), nil
}

func (s memPointers) ListByGenre(_ context.Context, genre string) ([]*models.ContentPointer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("list upload_content", false); err != nil {
		return nil, err
	}
	return s.sorted(func(p *models.ContentPointer) bool { return containsString(p.Genre, genre) }), nil
}

func (s memPointers) GetByID(_ context.Context, id uuid.UUID) (*models.ContentPointer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get upload_content", false); err != nil {
		return nil, err
	}
	p, ok := s.m.pointers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s memPointers) Create(_ context.Context, p *models.ContentPointer) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create upload_content", true); err != nil {
		return err
	}
	p.ID = uuid.New()
	p.CreatedAt = s.m.tick()
	cp := *p
	s.m.pointers[p.ID] = &cp
	return nil
}

func (s memPointers) Update(_ context.Context, p *models.ContentPointer) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("update upload_content", true); err != nil {
		return err
	}
	if _, ok := s.m.pointers[p.ID]; ok {
		cp := *p
		s.m.pointers[p.ID] = &cp
	}
	return nil
}

func (s memPointers) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete upload_content", true); err != nil {
		return err
	}
	delete(s.m.pointers, id)
	return nil
}

// --- movies ---

type memMovies struct{ m *memCatalog }

func (s memMovies) GetByContentID(_ context.Context, id uuid.UUID) (*models.MovieDetail, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get movie", false); err != nil {
		return nil, err
	}
	d, ok := s.m.movies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (s memMovies) Create(_ context.Context, d *models.MovieDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create movie", true); err != nil {
		return err
	}
	d.ContentID = uuid.New()
	d.CreatedAt = s.m.tick()
	cp := *d
	s.m.movies[d.ContentID] = &cp
	return nil
}

func (s memMovies) Update(_ context.Context, d *models.MovieDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("update movie", true); err != nil {
		return err
	}
	old, ok := s.m.movies[d.ContentID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *d
	cp.Views = old.Views
	cp.CreatedAt = old.CreatedAt
	s.m.movies[d.ContentID] = &cp
	return nil
}

func (s memMovies) IncrementViews(_ context.Context, id uuid.UUID) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("increment movie", true); err != nil {
		return 0, err
	}
	d, ok := s.m.movies[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	d.Views++
	return d.Views, nil
}

func (s memMovies) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete movie", true); err != nil {
		return err
	}
	delete(s.m.movies, id)
	return nil
}

// --- shows ---

type memShows struct{ m *memCatalog }

func (s memShows) GetByID(_ context.Context, id uuid.UUID) (*models.ShowDetail, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get show", false); err != nil {
		return nil, err
	}
	d, ok := s.m.shows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (s memShows) Create(_ context.Context, d *models.ShowDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create show", true); err != nil {
		return err
	}
	d.ID = uuid.New()
	d.CreatedAt = s.m.tick()
	cp := *d
	s.m.shows[d.ID] = &cp
	return nil
}

func (s memShows) Update(_ context.Context, d *models.ShowDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("update show", true); err != nil {
		return err
	}
	old, ok := s.m.shows[d.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *d
	cp.EpisodeIDList = old.EpisodeIDList
	cp.CreatedAt = old.CreatedAt
	s.m.shows[d.ID] = &cp
	return nil
}

func (s memShows) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete show", true); err != nil {
		return err
	}
	delete(s.m.shows, id)
	return nil
}

// --- web series ---

type memSeries struct{ m *memCatalog }

func (s memSeries) GetByContentID(_ context.Context, id uuid.UUID) (*models.WebSeriesDetail, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get web_series", false); err != nil {
		return nil, err
	}
	d, ok := s.m.series[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (s memSeries) Create(_ context.Context, d *models.WebSeriesDetail) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create web_series", true); err != nil {
		return err
	}
	d.ContentID = uuid.New()
	d.CreatedAt = s.m.tick()
	cp := *d
	s.m.series[d.ContentID] = &cp
	return nil
}

func (s memSeries) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete web_series", true); err != nil {
		return err
	}
	delete(s.m.series, id)
	return nil
}

// --- seasons ---

type memSeasons struct{ m *memCatalog }

func (s memSeasons) GetByID(_ context.Context, id uuid.UUID) (*models.Season, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get season", false); err != nil {
		return nil, err
	}
	d, ok := s.m.seasons[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (s memSeasons) Create(_ context.Context, d *models.Season) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create season", true); err != nil {
		return err
	}
	d.SeasonID = uuid.New()
	d.CreatedAt = s.m.tick()
	cp := *d
	s.m.seasons[d.SeasonID] = &cp
	return nil
}

func (s memSeasons) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete season", true); err != nil {
		return err
	}
	delete(s.m.seasons, id)
	return nil
}

// --- episodes ---

type memEpisodes struct{ m *memCatalog }

func (s memEpisodes) GetByID(_ context.Context, id uuid.UUID) (*models.Episode, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("get episode", false); err != nil {
		return nil, err
	}
	d, ok := s.m.episodes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (s memEpisodes) Create(_ context.Context, d *models.Episode) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create episode", true); err != nil {
		return err
	}
	d.EpisodeID = uuid.New()
	d.CreatedAt = s.m.tick()
	cp := *d
	s.m.episodes[d.EpisodeID] = &cp
	return nil
}

func (s memEpisodes) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("delete episode", true); err != nil {
		return err
	}
	delete(s.m.episodes, id)
	return nil
}

// --- demands ---

type memDemands struct{ m *memCatalog }

func (s memDemands) Create(_ context.Context, d *models.DemandRequest) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("create demand", true); err != nil {
		return err
	}
	d.ID = uuid.New()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.m.clock
	}
	cp := *d
	s.m.demands[d.ID] = &cp
	return nil
}

func (s memDemands) CountSince(_ context.Context, ip string, since time.Time) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.step("count demand", false); err != nil {
		return 0, err
	}
	n := 0
	for _, d := range s.m.demands {
		if d.UserIP == ip && !d.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s memDemands) List(_ context.Context) ([]*models.DemandRequest, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.DemandRequest
	for _, d := range s.m.demands {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memDemands) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.demands[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.m.demands, id)
	return nil
}

// --- upcoming ---

type memUpcoming struct{ m *memCatalog }

func (s memUpcoming) List(_ context.Context) ([]*models.UpcomingAnnouncement, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.UpcomingAnnouncement
	for _, u := range s.m.upcoming {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memUpcoming) GetByID(_ context.Context, id uuid.UUID) (*models.UpcomingAnnouncement, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.upcoming[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s memUpcoming) Create(_ context.Context, u *models.UpcomingAnnouncement) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.ID = uuid.New()
	u.CreatedAt = s.m.tick()
	cp := *u
	s.m.upcoming[u.ID] = &cp
	return nil
}

func (s memUpcoming) Update(_ context.Context, u *models.UpcomingAnnouncement) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.upcoming[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	s.m.upcoming[u.ID] = &cp
	return nil
}

func (s memUpcoming) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.upcoming[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.m.upcoming, id)
	return nil
}

// --- collaborators ---

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]models.WSMessage
	err      error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{messages: map[string][]models.WSMessage{}}
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, msg models.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages[channel] = append(p.messages[channel], msg)
	return nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []*models.CleanupJob
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job *models.CleanupJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

// mapRailCache stores rails in a map keyed by version, kind and argument.
type mapRailCache struct {
	mu          sync.Mutex
	entries     map[string][]models.RailItem
	version     int64
	invalidated int
	getErr      error
}

func newMapRailCache() *mapRailCache {
	return &mapRailCache{entries: map[string][]models.RailItem{}}
}

func railEntryKey(version int64, kind, arg string) string {
	return fmt.Sprintf("%d|%s|%s", version, kind, arg)
}

func (c *mapRailCache) Get(_ context.Context, kind, arg string, dst interface{}) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	items, ok := c.entries[railEntryKey(c.version, kind, arg)]
	if !ok {
		return c.version, false, nil
	}
	*dst.(*[]models.RailItem) = items
	return c.version, true, nil
}

func (c *mapRailCache) Set(_ context.Context, version int64, kind, arg string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[railEntryKey(version, kind, arg)] = value.([]models.RailItem)
	return nil
}

func (c *mapRailCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidated++
	return nil
}
