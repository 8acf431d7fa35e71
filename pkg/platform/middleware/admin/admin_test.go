package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name     string
		expected string
		sent     string
		want     int
	}{
		{name: "matching token", expected: "secret", sent: "secret", want: http.StatusNoContent},
		{name: "wrong token", expected: "secret", sent: "nope", want: http.StatusUnauthorized},
		{name: "missing token", expected: "secret", want: http.StatusUnauthorized},
		{name: "unconfigured token", expected: "", sent: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/portal/suppliers", nil)
			if tt.sent != "" {
				r.Header.Set(HeaderAdminToken, tt.sent)
			}
			rec := httptest.NewRecorder()
			RequireAdminToken(tt.expected, logger)(ok).ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
