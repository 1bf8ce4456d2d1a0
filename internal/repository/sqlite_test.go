package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, time.May, 5, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*SQLiteDB, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	db, err := NewSQLiteDB(":memory:", WithClock(clock))
	require.NoError(t, err, "failed to create test db")
	t.Cleanup(func() { db.Close() })
	return db, clock
}

func newReport(city string, category models.ReportCategory) *models.IncidentReport {
	return &models.IncidentReport{
		City:         city,
		Industry:     "Textile & Dyeing",
		Category:     category,
		Description:  "Coloured discharge in the canal behind the dyeing units",
		ReporterName: "A. Resident",
		Latitude:     28.61,
		Longitude:    77.21,
	}
}

func TestSQLiteDB_CreateAndGet(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	r := newReport("Delhi", models.ReportCategoryWater)
	r.Status = models.ReportStatusResolved // ignored on create
	require.NoError(t, db.Create(ctx, r))

	assert.Len(t, r.ID, 36)
	assert.Equal(t, models.ReportStatusPending, r.Status)
	assert.True(t, start.Equal(r.CreatedAt))

	got, err := db.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.City, got.City)
	assert.Equal(t, r.Industry, got.Industry)
	assert.Equal(t, models.ReportCategoryWater, got.Category)
	assert.Equal(t, r.Description, got.Description)
	assert.Equal(t, "A. Resident", got.ReporterName)
	assert.Equal(t, 28.61, got.Latitude)
	assert.Equal(t, models.ReportStatusPending, got.Status)
	assert.True(t, start.Equal(got.CreatedAt))
	assert.True(t, start.Equal(got.UpdatedAt))
}

func TestSQLiteDB_GetMissing(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDB_CreateAssignsUniqueIDs(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		r := newReport("Delhi", models.ReportCategoryAir)
		require.NoError(t, db.Create(ctx, r))
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}

func TestSQLiteDB_ListNewestFirstWithTotal(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 25; i++ {
		r := newReport(fmt.Sprintf("City%d", i%2), models.ReportCategoryAir)
		require.NoError(t, db.Create(ctx, r))
		ids = append(ids, r.ID)
		clock.Advance(time.Minute)
	}

	page, err := db.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, DefaultPageSize, page.Limit)
	require.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, ids[24], page.Items[0].ID)
	assert.Equal(t, ids[5], page.Items[19].ID)

	page, err = db.List(ctx, Filter{Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Items, 5)
	assert.Equal(t, ids[0], page.Items[4].ID)
}

func TestSQLiteDB_ListLimits(t *testing.T) {
	db, _ := setupTestDB(t)

	page, err := db.List(context.Background(), Filter{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestSQLiteDB_ListFilters(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	delhi := newReport("Delhi", models.ReportCategoryAir)
	require.NoError(t, db.Create(ctx, delhi))
	require.NoError(t, db.Create(ctx, newReport("Mumbai", models.ReportCategoryWater)))
	require.NoError(t, db.Create(ctx, newReport("delhi", models.ReportCategorySoil)))

	_, err := db.UpdateStatus(ctx, delhi.ID, models.ReportStatusReviewed)
	require.NoError(t, err)

	page, err := db.List(ctx, Filter{City: "DELHI"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	reviewed := models.ReportStatusReviewed
	page, err = db.List(ctx, Filter{Status: &reviewed})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, delhi.ID, page.Items[0].ID)

	pending := models.ReportStatusPending
	page, err = db.List(ctx, Filter{Status: &pending, City: "Delhi"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, models.ReportCategorySoil, page.Items[0].Category)
}

func TestSQLiteDB_UpdateStatus(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	r := newReport("Beijing", models.ReportCategoryWaste)
	require.NoError(t, db.Create(ctx, r))

	clock.Advance(time.Hour)
	got, err := db.UpdateStatus(ctx, r.ID, models.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, got.Status)
	assert.True(t, start.Equal(got.CreatedAt))
	assert.True(t, start.Add(time.Hour).Equal(got.UpdatedAt))

	_, err = db.UpdateStatus(ctx, "missing", models.ReportStatusResolved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.UpdateStatus(ctx, r.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

var _ IncidentRepository = (*SQLiteDB)(nil)
