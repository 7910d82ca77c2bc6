package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/busradar/busradar/api/fleet"
)

type fakeSnapshotter struct {
	routes []string
}

func (f *fakeSnapshotter) FleetSnapshot() []string { return f.routes }
func (f *fakeSnapshotter) ClearFleet()             { f.routes = nil }

func TestFetchActiveRoutes(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/fleet", fleet.NewSnapshotHandler(&fakeSnapshotter{routes: []string{"3.0", "7.0"}}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	routes, err := fetchActiveRoutes(srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []string{"3.0", "7.0"}, routes)
}

func TestFetchActiveRoutesEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/fleet", fleet.NewSnapshotHandler(&fakeSnapshotter{}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	routes, err := fetchActiveRoutes(srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Empty(t, routes)
}

func TestFetchActiveRoutesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fetchActiveRoutes(srv.Client(), srv.URL)
	require.ErrorContains(t, err, "500")
}
