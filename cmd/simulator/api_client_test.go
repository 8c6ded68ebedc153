package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogClient_PopulateFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	client, err := NewCatalogClient(ts.Server.URL)
	require.NoError(t, err)

	require.NoError(t, client.Register("viewer", defaultPassword))
	assert.True(t, strings.HasPrefix(client.Username, "viewer_"))

	require.NoError(t, client.AddMovie(sampleMovies[0]))
	assert.Equal(t, int64(1), testutil.MovieCount(t, ts.DB))

	other, err := NewCatalogClient(ts.Server.URL)
	require.NoError(t, err)
	require.NoError(t, other.Login(client.Username, defaultPassword))
}

func TestCatalogClient_ReportsFormErrors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	client, err := NewCatalogClient(ts.Server.URL)
	require.NoError(t, err)
	require.NoError(t, client.Register("viewer", defaultPassword))

	err = client.AddMovie(Movie{Name: "Broken", Description: "x", Year: 2000, Genres: "Drama", Rating: "11"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")

	err = client.Login(client.Username, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestCatalogClient_Watch(t *testing.T) {
	ts := testutil.NewTestServer(t)

	writer, err := NewCatalogClient(ts.Server.URL)
	require.NoError(t, err)
	require.NoError(t, writer.Register("writer", defaultPassword))

	watcher, err := NewCatalogClient(ts.Server.URL)
	require.NoError(t, err)

	events := make(chan map[string]any, 1)
	go watcher.Watch(func(msg []byte) {
		var decoded map[string]any
		if json.Unmarshal(msg, &decoded) == nil {
			select {
			case events <- decoded:
			default:
			}
		}
	})

	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, writer.AddMovie(sampleMovies[1]))

	select {
	case ev := <-events:
		assert.Equal(t, "MOVIE_CREATED", ev["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("no catalog event received")
	}
}
