package scenarios

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/busradar/busradar/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestUpdateDefToModel(t *testing.T) {
	u, err := UpdateDef{VehicleID: "7", Event: "new_loc", Lat: 12.9, Lon: 77.6}.ToModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Kind != model.EventLocation || u.Lat != 12.9 {
		t.Fatalf("unexpected update %+v", u)
	}

	if _, err := (UpdateDef{VehicleID: "7", Event: "teleported"}).ToModel(); !errors.Is(err, model.ErrInvalidUpdate) {
		t.Fatalf("expected ErrInvalidUpdate, got %v", err)
	}
}

func TestSubscriberDefToModel(t *testing.T) {
	def := SubscriberDef{ID: "s1", Endpoint: "https://push.example.com/s1", RouteKey: "12", Lat: 12.9, Lon: 77.6}
	sub := def.ToModel()
	if sub.RouteKey != "12.0" {
		t.Fatalf("route key not normalized: %s", sub.RouteKey)
	}
	if !sub.HasPosition {
		t.Fatal("expected position")
	}

	noPos := SubscriberDef{ID: "s2", Endpoint: "e", RouteKey: "x", NoPos: true}.ToModel()
	if noPos.HasPosition {
		t.Fatal("expected no position")
	}
}
