package models

import (
	"os"
	"strings"
)

// defaultVehicleIDs is the built-in dispatch fleet. The set is small and
// fixed per deployment; override with the VEHICLE_IDS environment variable.
var defaultVehicleIDs = []string{"sonata-01", "carnival-02", "porter-03"}

// VehicleIDs returns the enumerated set of bookable vehicle identifiers,
// read from VEHICLE_IDS (comma-separated) or the built-in default.
func VehicleIDs() []string {
	raw := os.Getenv("VEHICLE_IDS")
	if raw == "" {
		return defaultVehicleIDs
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return defaultVehicleIDs
	}
	return ids
}

// IsValidVehicleID checks whether id belongs to the configured fleet.
func IsValidVehicleID(id string) bool {
	for _, v := range VehicleIDs() {
		if v == id {
			return true
		}
	}
	return false
}
