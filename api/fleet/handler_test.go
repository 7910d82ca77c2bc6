package fleet

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeEngine struct {
	routes  []string
	cleared bool
}

func (f *fakeEngine) FleetSnapshot() []string { return f.routes }
func (f *fakeEngine) ClearFleet()             { f.cleared = true }

func TestSnapshotHandler(t *testing.T) {
	h := NewSnapshotHandler(&fakeEngine{routes: []string{"3.0", "7.0"}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fleet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"3.0"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestSnapshotHandlerEmpty(t *testing.T) {
	h := NewSnapshotHandler(&fakeEngine{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fleet", nil))
	if !strings.Contains(rec.Body.String(), `"active_routes":[]`) {
		t.Fatalf("empty fleet should encode as [], got %s", rec.Body.String())
	}
}

func TestResetHandler(t *testing.T) {
	eng := &fakeEngine{routes: []string{"7.0"}}
	h := NewResetHandler(eng)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fleet/reset", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if !eng.cleared {
		t.Fatal("fleet not cleared")
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fleet/reset", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d want 405", rec.Code)
	}
}
