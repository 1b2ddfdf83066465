package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{
			name:       "trusted proxy with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5555",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted proxy with X-Forwarded-For chain",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5555",
			forwarded:  "203.0.113.9, 10.1.2.3",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted client cannot spoof",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "198.51.100.4:5555",
			realIP:     "203.0.113.9",
			want:       "198.51.100.4:5555",
		},
		{
			name:       "bare IP accepted as trusted entry",
			trusted:    []string{"192.0.2.10"},
			remoteAddr: "192.0.2.10:443",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "no trusted proxies configured",
			trusted:    nil,
			remoteAddr: "10.1.2.3:5555",
			realIP:     "203.0.113.9",
			want:       "10.1.2.3:5555",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedRealIP(tt.trusted)(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					got = r.RemoteAddr
				}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
