package realtime

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/pkg/logger"
	"github.com/wardrobify/wardrobify/pkg/metrics"
)

const (
	// DefaultInterval is the cadence at which snapshots are pushed.
	DefaultInterval = 3 * time.Second

	writeWait      = 10 * time.Second
	subscribeWait  = 30 * time.Second
	maxMessageSize = 1 << 16
)

// SensorDirectory resolves a subscribed sensor id against the owner.
type SensorDirectory interface {
	Get(ctx context.Context, ownerID, id string) (*models.Sensor, error)
}

// ReadingSource answers latest-reading queries for a sensor.
type ReadingSource interface {
	LatestForSensor(ctx context.Context, sensor *models.Sensor) (*models.Reading, error)
}

// RelayConfig tunes the relay. Zero values take defaults.
type RelayConfig struct {
	Interval time.Duration
}

// Relay streams latest-reading snapshots over websockets. Each connection
// declares its sensor ids once, then receives a full snapshot every interval:
// a JSON object keyed by sensor id, null for sensors with no data.
type Relay struct {
	sensors  SensorDirectory
	readings ReadingSource
	interval time.Duration
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewRelay constructs a Relay.
func NewRelay(sensors SensorDirectory, readings ReadingSource, cfg RelayConfig) *Relay {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Relay{
		sensors:  sensors,
		readings: readings,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				originHost := hostWithoutPort(origin)
				requestHost := hostWithoutPort(r.Host)
				return originHost == requestHost || isLoopback(originHost)
			},
		},
		log: logger.WithModule("relay"),
	}
}

// Serve upgrades the request and runs the snapshot loop in its own goroutine.
// The caller's handler returns immediately after the upgrade.
func (r *Relay) Serve(userID string, w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &relayConn{
		relay:  r,
		socket: conn,
		userID: userID,
		done:   make(chan struct{}),
	}

	metrics.RelayConnections.Inc()
	go client.run()
}

type relayConn struct {
	relay  *Relay
	socket *websocket.Conn
	userID string
	done   chan struct{}
	once   sync.Once
}

// run drives one connection through its lifecycle: await the subscription
// message, then stream snapshots until the transport drops. A panic anywhere
// in the loop tears down this connection only.
func (c *relayConn) run() {
	defer func() {
		if rec := recover(); rec != nil {
			c.relay.log.Error("relay connection panicked", zap.Any("panic", rec))
		}
		c.close()
	}()

	sensorIDs, err := c.awaitSubscription()
	if err != nil {
		c.relay.log.Debug("subscription not received", zap.Error(err))
		return
	}

	// Drain reads so client close frames are noticed while we stream.
	go c.watchClose()

	ticker := time.NewTicker(c.relay.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			snapshot := c.buildSnapshot(sensorIDs)
			if len(snapshot) == 0 {
				continue
			}
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}

// awaitSubscription reads the single JSON array of sensor ids the client
// sends after connecting.
func (c *relayConn) awaitSubscription() ([]string, error) {
	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(subscribeWait))

	var sensorIDs []string
	if err := c.socket.ReadJSON(&sensorIDs); err != nil {
		return nil, err
	}

	_ = c.socket.SetReadDeadline(time.Time{})
	return sensorIDs, nil
}

// buildSnapshot resolves the latest reading per subscribed sensor. Sensors
// the user does not own, unknown ids, and per-sensor query errors all map to
// null entries; one bad sensor never withholds the rest of the snapshot.
func (c *relayConn) buildSnapshot(sensorIDs []string) map[string]*models.Reading {
	snapshot := make(map[string]*models.Reading, len(sensorIDs))
	ctx := context.Background()

	for _, id := range sensorIDs {
		snapshot[id] = nil

		sensor, err := c.relay.sensors.Get(ctx, c.userID, id)
		if err != nil {
			continue
		}

		reading, err := c.relay.readings.LatestForSensor(ctx, sensor)
		if err != nil {
			c.relay.log.Warn("latest reading lookup failed",
				zap.String("sensor_id", id), zap.Error(err))
			continue
		}
		snapshot[id] = reading
	}
	return snapshot
}

func (c *relayConn) watchClose() {
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			c.close()
			return
		}
	}
}

func (c *relayConn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.socket.Close()
		metrics.RelayConnections.Dec()
	})
}

func hostWithoutPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		parsed, err := http.NewRequest(http.MethodGet, host, nil)
		if err == nil {
			return hostWithoutPort(parsed.URL.Host)
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}
