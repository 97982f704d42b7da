package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-backend/internal/logging"
	"catalog-backend/internal/models"
)

func TestRails_GenreIsExactMembership(t *testing.T) {
	m := newMemCatalog()
	p := m.addPointer("Dune", models.ContentTypeMovie, m.addMovie().ContentID, "Sci-Fi")
	rails := NewRailService(m.stores(), nil, logging.Discard())

	items, err := rails.ByGenre(context.Background(), "Sci-Fi")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
	assert.NotNil(t, items[0].Movie)

	for _, q := range []string{"sci-fi action", "Fi", "sci-fi"} {
		items, err := rails.ByGenre(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, items, "query %q", q)
	}
}

func TestRails_GenreResolvesOneLevel(t *testing.T) {
	m := newMemCatalog()
	season := m.addSeason("S1", []uuid.UUID{m.addEpisode("e").EpisodeID})
	series := m.addSeries([]uuid.UUID{season.SeasonID})
	m.addPointer("Series", models.ContentTypeWebSeries, series.ContentID, "Drama")
	rails := NewRailService(m.stores(), nil, logging.Discard())

	items, err := rails.ByGenre(context.Background(), "Drama")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].WebSeries)
	assert.Equal(t, []uuid.UUID{season.SeasonID}, items[0].WebSeries.SeasonIDList)
	assert.Zero(t, m.calls["get season"])
}

func TestRails_FeatureMatchesMoviesAndShowsOnly(t *testing.T) {
	m := newMemCatalog()
	movie := m.addPointer("Movie", models.ContentTypeMovie, m.addMovie("Home Hero").ContentID)
	m.addPointer("Other Movie", models.ContentTypeMovie, m.addMovie("Home Popular").ContentID)
	show := m.addPointer("Show", models.ContentTypeShow, m.addShow(nil, "Home Hero").ID)
	m.addPointer("Series", models.ContentTypeWebSeries, m.addSeries(nil).ContentID)
	rails := NewRailService(m.stores(), nil, logging.Discard())

	items, err := rails.ByFeature(context.Background(), "Home Hero")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, show.ID, items[0].ID)
	assert.Equal(t, movie.ID, items[1].ID)
	assert.Zero(t, m.calls["get web_series"])
}

func TestRails_EmptyArgumentsReturnEmpty(t *testing.T) {
	m := newMemCatalog()
	m.addPointer("Movie", models.ContentTypeMovie, m.addMovie("").ContentID, "")
	rails := NewRailService(m.stores(), nil, logging.Discard())

	items, err := rails.ByFeature(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = rails.ByGenre(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRails_DetailErrorExcludesItem(t *testing.T) {
	m := newMemCatalog()
	m.addPointer("Movie", models.ContentTypeMovie, m.addMovie("Home Hero").ContentID)
	m.addPointer("Show", models.ContentTypeShow, m.addShow(nil, "Home Hero").ID)
	m.failAlways["get show"] = errStoreDown
	rails := NewRailService(m.stores(), nil, logging.Discard())

	items, err := rails.ByFeature(context.Background(), "Home Hero")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentTypeMovie, items[0].ContentType)
}

func TestRails_PointerErrorAborts(t *testing.T) {
	m := newMemCatalog()
	m.failAlways["list upload_content"] = errStoreDown
	rails := NewRailService(m.stores(), nil, logging.Discard())

	_, err := rails.ByGenre(context.Background(), "Drama")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRails_CacheHitSkipsStores(t *testing.T) {
	m := newMemCatalog()
	m.addPointer("Movie", models.ContentTypeMovie, m.addMovie().ContentID, "Drama")
	cache := newMapRailCache()
	rails := NewRailService(m.stores(), cache, logging.Discard())

	first, err := rails.ByGenre(context.Background(), "Drama")
	require.NoError(t, err)
	listCalls := m.calls["list upload_content"]

	second, err := rails.ByGenre(context.Background(), "Drama")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, listCalls, m.calls["list upload_content"])

	rails.Invalidate(context.Background())
	_, err = rails.ByGenre(context.Background(), "Drama")
	require.NoError(t, err)
	assert.Equal(t, listCalls+1, m.calls["list upload_content"])
}

func TestRails_CacheErrorFallsBackToStores(t *testing.T) {
	m := newMemCatalog()
	m.addPointer("Movie", models.ContentTypeMovie, m.addMovie().ContentID, "Drama")
	cache := newMapRailCache()
	cache.getErr = errors.New("redis down")
	rails := NewRailService(m.stores(), cache, logging.Discard())

	items, err := rails.ByGenre(context.Background(), "Drama")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRails_RailBuiltAcrossInvalidationIsRebuilt(t *testing.T) {
	m := newMemCatalog()
	m.addPointer("Movie", models.ContentTypeMovie, m.addMovie().ContentID, "Drama")
	cache := newMapRailCache()
	rails := NewRailService(m.stores(), cache, logging.Discard())
	ctx := context.Background()

	stale := []models.RailItem{{ContentPointer: models.ContentPointer{Title: "deleted meanwhile"}}}
	_, err := rails.cached(ctx, "genre", "Drama", func() ([]models.RailItem, error) {
		rails.Invalidate(ctx)
		return stale, nil
	})
	require.NoError(t, err)

	items, err := rails.ByGenre(ctx, "Drama")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Movie", items[0].Title)
}
