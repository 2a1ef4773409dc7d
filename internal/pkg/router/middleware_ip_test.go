package router

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "true client ip wins",
			headers: map[string]string{"True-Client-IP": "203.0.113.7", "X-Real-IP": "198.51.100.1"},
			remote:  "10.0.0.1:4000",
			want:    "203.0.113.7",
		},
		{
			name:    "x real ip before forwarded",
			headers: map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "192.0.2.9, 10.0.0.2"},
			remote:  "10.0.0.1:4000",
			want:    "198.51.100.1",
		},
		{
			name:    "first forwarded hop",
			headers: map[string]string{"X-Forwarded-For": "192.0.2.9, 10.0.0.2"},
			remote:  "10.0.0.1:4000",
			want:    "192.0.2.9",
		},
		{
			name:   "socket fallback",
			remote: "10.0.0.1:4000",
			want:   "10.0.0.1",
		},
		{
			name:    "garbage header falls back",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			remote:  "10.0.0.1:4000",
			want:    "10.0.0.1",
		},
		{
			name:   "unparseable remote",
			remote: "pipe",
			want:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tc.want, clientIP(r))
		})
	}
}
