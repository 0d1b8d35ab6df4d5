package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hall-management-backend/config"
	"hall-management-backend/internal/api"
	"hall-management-backend/internal/db"
	"hall-management-backend/internal/enrollment"
	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/store"
)

// TestEnrollmentToAllocationLifecycle runs a registrar sync with allocation
// against a SQLite-backed hall, then checks the result survives a restart
// and is visible through the admin API.
func TestEnrollmentToAllocationLifecycle(t *testing.T) {
	ctx := context.Background()

	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	appStore := store.NewGormStore(testDB)
	svc, err := hall.New(ctx, appStore, hall.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	seeded, err := svc.Seed(ctx, "admin", "admin123", []hall.Room{{Number: "R101", Capacity: 2}, {Number: "R102", Capacity: 1}})
	require.NoError(t, err)
	require.True(t, seeded)

	var events []hall.Event
	svc.Listen(func(ev hall.Event) { events = append(events, ev) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp enrollment.ApiResponse
		resp.Data.Total = 4
		resp.Data.Items = []enrollment.Record{
			{ID: "S1", Name: "Near", Distance: 5, Merit: 1},
			{ID: "S2", Name: "Far", Distance: 250, Merit: 40},
			{ID: "S3", Name: "Middle", Distance: 90, Merit: 3},
			{ID: "S4", Name: "Middle Too", Distance: 90, Merit: 2},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	syncSvc := enrollment.NewService(&config.EnrollmentConfig{
		Enabled:           true,
		Interval:          time.Hour,
		AllocateAfterSync: true,
		Request:           config.EnrollmentRequest{URL: server.URL, PageSize: 10},
	}, svc)

	res, err := syncSvc.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Added)
	require.NotNil(t, res.Allocation)
	assert.Equal(t, []hall.Placement{
		{StudentID: "S2", RoomNumber: "R101"},
		{StudentID: "S4", RoomNumber: "R101"},
		{StudentID: "S3", RoomNumber: "R102"},
	}, res.Allocation.Placements)
	assert.Equal(t, []string{"S1"}, res.Allocation.Unplaced)

	var assigned int
	for _, ev := range events {
		if ev.Kind == hall.EventSeatAssigned {
			assigned++
		}
	}
	assert.Equal(t, 3, assigned)

	// A restart sees the same state.
	restarted, err := hall.New(ctx, store.NewGormStore(testDB))
	require.NoError(t, err)
	assert.Equal(t, svc.Snapshot(), restarted.Snapshot())

	// A second sync finds only known students.
	res, err = syncSvc.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Duplicates)
	assert.Nil(t, res.Allocation)

	router := api.NewRouter(api.NewHandler(restarted, testDB, nil, nil), &config.ServerConfig{
		RateLimitPerSec: 100, RateLimitBurst: 100, CacheTTLSeconds: 60,
	})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.SetBasicAuth("admin", "admin123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var dash hall.AdminDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, hall.AdminDashboard{
		TotalStudents:    4,
		AssignedStudents: 3,
		TotalRooms:       2,
		OccupiedRooms:    2,
		FreeSeats:        0,
	}, dash)
}
