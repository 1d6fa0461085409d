package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectCity(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"found", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ip":"1.2.3.4","city":"Nagpur","country":"IN"}`))
		}, "Nagpur"},
		{"no city", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ip":"1.2.3.4"}`))
		}, ""},
		{"error status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}, ""},
		{"bad body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, time.Second)
			assert.Equal(t, tt.want, c.DetectCity(context.Background()))
		})
	}
}

func TestDetectCity_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 100*time.Millisecond)
	assert.Empty(t, c.DetectCity(context.Background()))
}
