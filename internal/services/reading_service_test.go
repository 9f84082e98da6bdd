package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardrobify/wardrobify/internal/database/testutil"
	"github.com/wardrobify/wardrobify/internal/models"
)

func TestReadingServiceLatestForSensorJoinsOnAddressAndType(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewReadingService(db)
	require.NoError(t, err)
	ctx := context.Background()

	sensor := &models.Sensor{Address: "8C:4F:00:37:55:00", Type: "Temperature"}
	base := time.Now().Add(-time.Hour)

	seed := []models.Reading{
		{Address: sensor.Address, Type: sensor.Type, Value: 68.5, Timestamp: base},
		{Address: sensor.Address, Type: sensor.Type, Value: 70.1, Timestamp: base.Add(10 * time.Minute)},
		// Same address, different type: belongs to another logical sensor.
		{Address: sensor.Address, Type: "Pressure", Value: 1013, Timestamp: base.Add(20 * time.Minute)},
		{Address: "other-device", Type: sensor.Type, Value: 55, Timestamp: base.Add(30 * time.Minute)},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	latest, err := svc.LatestForSensor(ctx, sensor)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, 70.1, latest.Value)
}

func TestReadingServiceLatestForSilentSensorIsNil(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewReadingService(db)
	require.NoError(t, err)

	latest, err := svc.LatestForSensor(context.Background(), &models.Sensor{Address: "silent", Type: "Temperature"})
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestReadingServiceRecentForSensorCapsAndOrders(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewReadingService(db)
	require.NoError(t, err)
	ctx := context.Background()

	sensor := &models.Sensor{Address: "busy-device", Type: "Temperature"}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < recentReadingsLimit+5; i++ {
		reading := models.Reading{
			Address:   sensor.Address,
			Type:      sensor.Type,
			Value:     float64(i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&reading).Error)
	}

	recent, err := svc.RecentForSensor(ctx, sensor)
	require.NoError(t, err)
	require.Len(t, recent, recentReadingsLimit)
	require.Equal(t, float64(recentReadingsLimit+4), recent[0].Value)
	require.True(t, recent[0].Timestamp.After(recent[len(recent)-1].Timestamp))
}

func TestReadingServiceAppendDefaultsTimestamp(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewReadingService(db)
	require.NoError(t, err)

	reading, err := svc.Append(context.Background(), AppendReadingInput{
		Address: "fresh-device",
		Type:    "Pressure",
		Value:   1008.2,
	})
	require.NoError(t, err)
	require.False(t, reading.Timestamp.IsZero())
	require.WithinDuration(t, time.Now(), reading.Timestamp, 5*time.Second)
}

func TestReadingServicePurgeOlderThan(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewReadingService(db)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now()
	old := models.Reading{Address: "a", Type: "Temperature", Value: 1, Timestamp: now.Add(-48 * time.Hour)}
	fresh := models.Reading{Address: "a", Type: "Temperature", Value: 2, Timestamp: now}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	purged, err := svc.PurgeOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	var remaining int64
	require.NoError(t, db.Model(&models.Reading{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)
}
