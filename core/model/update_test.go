package model

import (
	"errors"
	"testing"
)

func TestParseEventKind(t *testing.T) {
	cases := []struct {
		in   string
		kind EventKind
		ok   bool
	}{
		{"started", EventStarted, true},
		{"stopped", EventStopped, true},
		{"new_loc", EventLocation, true},
		{"paused", EventUnknown, false},
		{"", EventUnknown, false},
	}
	for _, c := range cases {
		k, ok := ParseEventKind(c.in)
		if k != c.kind || ok != c.ok {
			t.Errorf("ParseEventKind(%q) = %v,%v want %v,%v", c.in, k, ok, c.kind, c.ok)
		}
	}
}

func TestEventKindString(t *testing.T) {
	for _, k := range []EventKind{EventStarted, EventStopped, EventLocation} {
		parsed, ok := ParseEventKind(k.String())
		if !ok || parsed != k {
			t.Errorf("round trip failed for %v", k)
		}
	}
}

func TestVehicleUpdateValidate(t *testing.T) {
	cases := []struct {
		name   string
		update VehicleUpdate
		ok     bool
	}{
		{"started", VehicleUpdate{VehicleID: "7", Kind: EventStarted}, true},
		{"stopped", VehicleUpdate{VehicleID: "7", Kind: EventStopped}, true},
		{"location", VehicleUpdate{VehicleID: "7", Kind: EventLocation, Lat: 12.9, Lon: 77.6}, true},
		{"missing id", VehicleUpdate{Kind: EventStarted}, false},
		{"unknown kind", VehicleUpdate{VehicleID: "7"}, false},
		{"bad latitude", VehicleUpdate{VehicleID: "7", Kind: EventLocation, Lat: 91}, false},
		{"bad longitude", VehicleUpdate{VehicleID: "7", Kind: EventLocation, Lon: -181}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.update.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidUpdate) {
					t.Fatalf("error %v is not ErrInvalidUpdate", err)
				}
			}
		})
	}
}

func TestNormalizeRouteKey(t *testing.T) {
	cases := map[string]string{
		"12":      "12.0",
		"12.0":    "12.0",
		"7":       "7.0",
		"0":       "0.0",
		"A4":      "A4",
		"express": "express",
		"":        "",
	}
	for in, want := range cases {
		if got := NormalizeRouteKey(in); got != want {
			t.Errorf("NormalizeRouteKey(%q) = %q want %q", in, got, want)
		}
	}
}
