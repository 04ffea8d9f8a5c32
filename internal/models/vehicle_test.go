package models

import (
	"os"
	"testing"
)

func TestVehicleIDs_Default(t *testing.T) {
	os.Unsetenv("VEHICLE_IDS")

	ids := VehicleIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 default vehicles, got %d", len(ids))
	}
	if ids[0] != "sonata-01" {
		t.Errorf("expected sonata-01 first, got %s", ids[0])
	}
}

func TestVehicleIDs_FromEnv(t *testing.T) {
	os.Setenv("VEHICLE_IDS", "van-01, truck-02 ,,bus-03")
	defer os.Unsetenv("VEHICLE_IDS")

	ids := VehicleIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 configured vehicles, got %d", len(ids))
	}
	for i, want := range []string{"van-01", "truck-02", "bus-03"} {
		if ids[i] != want {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want)
		}
	}
}

func TestVehicleIDs_BlankEnvFallsBack(t *testing.T) {
	os.Setenv("VEHICLE_IDS", " , ,")
	defer os.Unsetenv("VEHICLE_IDS")

	ids := VehicleIDs()
	if len(ids) != 3 || ids[0] != "sonata-01" {
		t.Errorf("expected default fleet for blank configuration, got %v", ids)
	}
}

func TestIsValidVehicleID(t *testing.T) {
	os.Unsetenv("VEHICLE_IDS")

	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"known vehicle", "carnival-02", true},
		{"unknown vehicle", "bicycle-99", false},
		{"empty id", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidVehicleID(tt.id)
			if result != tt.expected {
				t.Errorf("IsValidVehicleID(%s) = %v, want %v", tt.id, result, tt.expected)
			}
		})
	}
}
