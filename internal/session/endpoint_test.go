package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		secure bool
		want   string
	}{
		{"default host", "", false, "ws://localhost:4000/view-log-ws"},
		{"bare host", "logs.example.com:4000", false, "ws://logs.example.com:4000/view-log-ws"},
		{"secure flag", "logs.example.com", true, "wss://logs.example.com/view-log-ws"},
		{"https host", "https://logs.example.com", false, "wss://logs.example.com/view-log-ws"},
		{"wss host", "wss://logs.example.com:8443", false, "wss://logs.example.com:8443/view-log-ws"},
		{"http host", "http://logs.example.com", false, "ws://logs.example.com/view-log-ws"},
		{"strips extras", "ws://u:p@logs.example.com/other?x=1#frag", false, "ws://logs.example.com/view-log-ws"},
		{"trims space", "  localhost:9000 ", false, "ws://localhost:9000/view-log-ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := EndpointURL(tt.host, tt.secure)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestEndpointURL_Rejects(t *testing.T) {
	for _, host := range []string{"ftp://logs.example.com", "ws://"} {
		_, err := EndpointURL(host, false)
		assert.Error(t, err, host)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 2 * time.Second},
		{-1, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{4, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBackoff(tt.failures, 2*time.Second), "failures=%d", tt.failures)
	}
	for failures := 0; failures <= 20; failures++ {
		assert.LessOrEqual(t, calculateBackoff(failures, 2*time.Second), maxBackoff)
	}
	assert.Equal(t, DefaultBackoff, calculateBackoff(0, 0))
	assert.Equal(t, 2*DefaultBackoff, calculateBackoff(1, 0))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "unknown", State(42).String())
}
