package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/database/testutil"
	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/internal/services"
)

func setupRelayTest(t *testing.T) (*gorm.DB, *Relay, *models.User) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	sensorSvc, err := services.NewSensorService(db)
	require.NoError(t, err)
	readingSvc, err := services.NewReadingService(db)
	require.NoError(t, err)

	relay := NewRelay(sensorSvc, readingSvc, RelayConfig{Interval: 50 * time.Millisecond})

	user := &models.User{
		Username: "relay-user",
		Password: "hashed",
		Email:    "relay@example.com",
		Location: "San Diego",
	}
	require.NoError(t, db.Create(user).Error)

	return db, relay, user
}

func dialRelay(t *testing.T, relay *Relay, userID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relay.Serve(userID, w, r)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestRelaySnapshotMixesReadingsAndNulls(t *testing.T) {
	db, relay, user := setupRelayTest(t)

	silent := &models.Sensor{UserID: user.ID, Type: "Temperature", Units: "F", Address: "silent-device"}
	active := &models.Sensor{UserID: user.ID, Type: "Pressure", Units: "hPa", Address: "active-device"}
	require.NoError(t, db.Create(silent).Error)
	require.NoError(t, db.Create(active).Error)

	reported := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, db.Create(&models.Reading{
		Address:   active.Address,
		Type:      active.Type,
		Value:     1013.25,
		Timestamp: reported,
	}).Error)

	conn := dialRelay(t, relay, user.ID)
	require.NoError(t, conn.WriteJSON([]string{silent.ID, active.ID}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snapshot map[string]*models.Reading
	require.NoError(t, conn.ReadJSON(&snapshot))

	require.Len(t, snapshot, 2)
	require.Nil(t, snapshot[silent.ID])
	require.NotNil(t, snapshot[active.ID])
	require.Equal(t, 1013.25, snapshot[active.ID].Value)
	require.True(t, snapshot[active.ID].Timestamp.Equal(reported))
}

func TestRelayRepeatsSnapshotsEveryInterval(t *testing.T) {
	db, relay, user := setupRelayTest(t)

	sensor := &models.Sensor{UserID: user.ID, Type: "Temperature", Units: "F", Address: "ticking-device"}
	require.NoError(t, db.Create(sensor).Error)
	require.NoError(t, db.Create(&models.Reading{
		Address: sensor.Address, Type: sensor.Type, Value: 70, Timestamp: time.Now(),
	}).Error)

	conn := dialRelay(t, relay, user.ID)
	require.NoError(t, conn.WriteJSON([]string{sensor.ID}))

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var snapshot map[string]*models.Reading
		require.NoError(t, conn.ReadJSON(&snapshot))
		require.NotNil(t, snapshot[sensor.ID])
	}
}

func TestRelayForeignSensorYieldsNull(t *testing.T) {
	db, relay, user := setupRelayTest(t)

	other := &models.User{
		Username: "relay-other",
		Password: "hashed",
		Email:    "relay-other@example.com",
		Location: "Seattle",
	}
	require.NoError(t, db.Create(other).Error)

	foreign := &models.Sensor{UserID: other.ID, Type: "Temperature", Units: "F", Address: "foreign-device"}
	require.NoError(t, db.Create(foreign).Error)
	require.NoError(t, db.Create(&models.Reading{
		Address: foreign.Address, Type: foreign.Type, Value: 65, Timestamp: time.Now(),
	}).Error)

	conn := dialRelay(t, relay, user.ID)
	require.NoError(t, conn.WriteJSON([]string{foreign.ID, "not-a-sensor"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snapshot map[string]*models.Reading
	require.NoError(t, conn.ReadJSON(&snapshot))

	require.Len(t, snapshot, 2)
	require.Nil(t, snapshot[foreign.ID])
	require.Nil(t, snapshot["not-a-sensor"])
}

func TestRelayClosesWithoutSubscription(t *testing.T) {
	_, relay, user := setupRelayTest(t)

	conn := dialRelay(t, relay, user.ID)
	// Closing before the subscription message must tear the connection down
	// server-side without affecting anything else.
	require.NoError(t, conn.Close())

	conn2 := dialRelay(t, relay, user.ID)
	require.NoError(t, conn2.WriteJSON([]string{}))

	// No sensors means no snapshots; the read should time out, not error out
	// with a server-side close.
	require.NoError(t, conn2.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var snapshot map[string]*models.Reading
	err := conn2.ReadJSON(&snapshot)
	require.Error(t, err)
	netErr, ok := err.(interface{ Timeout() bool })
	require.True(t, ok)
	require.True(t, netErr.Timeout())
}
