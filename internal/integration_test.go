package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"seatmap-backend/config"
	"seatmap-backend/internal/api"
	"seatmap-backend/internal/model"
	"seatmap-backend/internal/partition"
)

// newTestServer wires the full stack (store, partitions, hub, router) over
// the given database file and returns an httptest server for it.
func newTestServer(t *testing.T, dbPath string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))

	// The 12-seat layout: 1A..1F, 2A..2F.
	layout := &config.LayoutConfig{Rows: 2, Columns: "ABCDEF"}
	registry := partition.NewRegistry(db, layout.SeatNumbers(), nil)
	handler := api.NewHandler(registry, db, nil, layout)
	router := api.NewRouter(handler, &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func bookSeat(t *testing.T, srv *httptest.Server, flight, seat, name string) (int, string) {
	t.Helper()
	body := `{"seatNumber":"` + seat + `","name":"` + name + `"}`
	resp, err := http.Post(srv.URL+"/book-seat?flight="+flight, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func getSeats(t *testing.T, srv *httptest.Server, flight string) map[string]*string {
	t.Helper()
	resp, err := http.Get(srv.URL + "/seats?flight=" + flight)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var seats []model.Seat
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&seats))
	m := make(map[string]*string, len(seats))
	for _, s := range seats {
		m[s.SeatNumber] = s.Occupant
	}
	return m
}

func dialWS(t *testing.T, srv *httptest.Server, flight string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?flight=" + flight
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) map[string]*string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var seats []model.Seat
	require.NoError(t, json.Unmarshal(payload, &seats))
	m := make(map[string]*string, len(seats))
	for _, s := range seats {
		m[s.SeatNumber] = s.Occupant
	}
	return m
}

// TestBookingScenario walks the canonical booking flow on a 12-seat flight:
// Alice books 1A, Bob is rejected for 1A, Alice moves to 2A vacating 1A,
// and a booking for a seat outside the layout fails.
func TestBookingScenario(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "seatmap.db"))
	const flight = "AA12"

	seats := getSeats(t, srv, flight)
	require.Len(t, seats, 12)
	for number, occupant := range seats {
		assert.Nil(t, occupant, "seat %s should start empty", number)
	}

	status, body := bookSeat(t, srv, flight, "1A", "Alice")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seat 1A booked successfully", body)

	status, body = bookSeat(t, srv, flight, "1A", "Bob")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Seat not available", body)

	status, body = bookSeat(t, srv, flight, "2A", "Alice")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seat 2A booked successfully", body)

	seats = getSeats(t, srv, flight)
	assert.Nil(t, seats["1A"], "1A should be vacated after Alice moves")
	require.NotNil(t, seats["2A"])
	assert.Equal(t, "Alice", *seats["2A"])

	status, body = bookSeat(t, srv, flight, "9Z", "Mallory")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Seat not found", body)
}

// TestLiveSubscribers verifies the websocket surface: snapshot on connect,
// one identical push per subscriber per booking, and independence of the
// remaining subscribers when one connection goes away.
func TestLiveSubscribers(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "seatmap.db"))
	const flight = "UA100"

	first := dialWS(t, srv, flight)
	second := dialWS(t, srv, flight)

	// Connect-time snapshots.
	snapshot := readSnapshot(t, first)
	assert.Len(t, snapshot, 12)
	readSnapshot(t, second)

	status, _ := bookSeat(t, srv, flight, "1B", "Alice")
	require.Equal(t, http.StatusOK, status)

	fromFirst := readSnapshot(t, first)
	fromSecond := readSnapshot(t, second)
	require.NotNil(t, fromFirst["1B"])
	assert.Equal(t, "Alice", *fromFirst["1B"])
	assert.Equal(t, fromFirst, fromSecond)

	// Drop one subscriber; the other keeps receiving broadcasts.
	require.NoError(t, first.Close())

	status, _ = bookSeat(t, srv, flight, "1C", "Bob")
	require.Equal(t, http.StatusOK, status)

	fromSecond = readSnapshot(t, second)
	require.NotNil(t, fromSecond["1C"])
	assert.Equal(t, "Bob", *fromSecond["1C"])
}

// TestFlightsAreIndependent books the same seat number on two flights.
func TestFlightsAreIndependent(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "seatmap.db"))

	status, _ := bookSeat(t, srv, "UA100", "1A", "Alice")
	require.Equal(t, http.StatusOK, status)

	status, body := bookSeat(t, srv, "BA200", "1A", "Bob")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seat 1A booked successfully", body)

	ua := getSeats(t, srv, "UA100")
	ba := getSeats(t, srv, "BA200")
	require.NotNil(t, ua["1A"])
	require.NotNil(t, ba["1A"])
	assert.Equal(t, "Alice", *ua["1A"])
	assert.Equal(t, "Bob", *ba["1A"])
}

// TestOccupancySurvivesRestart boots a second server over the same database
// file and checks that bookings persist and reseeding does not occur.
func TestOccupancySurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seatmap.db")
	const flight = "LH441"

	first := newTestServer(t, dbPath)
	status, _ := bookSeat(t, first, flight, "2F", "Alice")
	require.Equal(t, http.StatusOK, status)
	first.Close()

	second := newTestServer(t, dbPath)
	seats := getSeats(t, second, flight)
	require.Len(t, seats, 12, "restart must not duplicate seed rows")
	require.NotNil(t, seats["2F"])
	assert.Equal(t, "Alice", *seats["2F"])
}
