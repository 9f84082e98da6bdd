package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		want    *Reading
		wantErr bool
	}{
		{
			name:    "temperature topic",
			topic:   "ece140/sensors/device/8C:4F:00:37:55:00/temperature",
			payload: `{"value": 71.5}`,
			want:    &Reading{Value: 71.5, Type: "Temperature", Address: "8C:4F:00:37:55:00"},
		},
		{
			name:    "pressure topic",
			topic:   "ece140/sensors/device/asdf.com/pressure",
			payload: `{"value": 1013.2}`,
			want:    &Reading{Value: 1013.2, Type: "Pressure", Address: "asdf.com"},
		},
		{
			name:    "unknown suffix dropped",
			topic:   "ece140/sensors/device/asdf.com/humidity",
			payload: `{"value": 40}`,
			wantErr: true,
		},
		{
			name:    "non-JSON payload dropped",
			topic:   "ece140/sensors/device/asdf.com/temperature",
			payload: `boot banner`,
			wantErr: true,
		},
		{
			name:    "missing value dropped",
			topic:   "ece140/sensors/device/asdf.com/temperature",
			payload: `{"reading": 12}`,
			wantErr: true,
		},
		{
			name:    "short topic dropped",
			topic:   "a/b/temperature",
			payload: `{"value": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMessage(tt.topic, []byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestForwardPostsSharedKey(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b, err := New(Config{
		Broker:    "tcp://broker.example.com:1883",
		BaseTopic: "ece140/sensors/device",
		ServerURL: server.URL,
		APIKey:    "bridge-key",
	})
	require.NoError(t, err)

	require.NoError(t, b.forward(&Reading{Value: 70.2, Type: "Temperature", Address: "dev-9"}))
	require.Equal(t, "bridge-key", received["api_key"])
	require.Equal(t, "Temperature", received["type"])
	require.Equal(t, "dev-9", received["address"])
	require.Equal(t, 70.2, received["value"])
}

func TestForwardReportsRejectedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	b, err := New(Config{
		Broker:    "tcp://broker.example.com:1883",
		BaseTopic: "ece140/sensors/device",
		ServerURL: server.URL,
		APIKey:    "stale-key",
	})
	require.NoError(t, err)

	require.Error(t, b.forward(&Reading{Value: 1, Type: "Pressure", Address: "dev-9"}))
}
