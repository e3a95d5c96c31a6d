package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSendsQueryAndResolvesURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files", r.URL.Path)
		assert.Equal(t, "clo", r.URL.Query().Get("search"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":2,"documents":[
			{"$id":"1","name":"cloud.png","url":"/files/cloud.png","type":"image","size":2048},
			{"$id":"2","name":"clock.zip","url":"https://cdn.example.com/clock.zip","type":"other"}
		]}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, AuthToken: "tok", Limit: 10})
	require.NoError(t, err)

	files, err := c.Search(context.Background(), "clo")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "cloud.png", files[0].Name)
	assert.Equal(t, srv.URL+"/files/cloud.png", files[0].URL)
	assert.Equal(t, int64(2048), files[0].Size)
	assert.Equal(t, "https://cdn.example.com/clock.zip", files[1].URL)
}

func TestRecentUsesSortAndLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "$createdAt-desc", r.URL.Query().Get("sort"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"documents":[]}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	files, err := c.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListReportsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode file list")
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)
}
