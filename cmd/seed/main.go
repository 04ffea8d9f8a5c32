// Command seed populates a running DriveNote server with demo data through
// its HTTP API: a bootstrap user, a week of bookings per vehicle and the
// matching drive logs. Useful for exercising the UI against a local stack.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	apiURL    string
	authToken string
)

func authorizedRequest(method, url string, payload interface{}) (*http.Response, error) {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

// bootstrapUser registers the seed user and logs in. The very first
// registration is auto-allowed as admin, so seeding against a fresh
// database just works; against an existing one the login path is used.
func bootstrapUser() error {
	register := map[string]string{
		"username":   "seed-admin",
		"email":      "seed-admin@example.com",
		"password":   "seed-password-1",
		"first_name": "Seed",
		"last_name":  "Admin",
		"department": "Operations",
	}
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/auth/register", register)
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	resp.Body.Close()

	login := map[string]string{
		"username": "seed-admin",
		"password": "seed-password-1",
	}
	resp, err = authorizedRequest(http.MethodPost, apiURL+"/auth/login", login)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	authToken = result.Token
	return nil
}

func fetchVehicles() ([]string, error) {
	resp, err := authorizedRequest(http.MethodGet, apiURL+"/vehicles", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Vehicles []string `json:"vehicles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Vehicles, nil
}

var destinations = []string{"Head office", "Incheon warehouse", "Client site", "Airport", "Factory"}
var drivers = []string{"Kim", "Lee", "Park", "Choi", "Jung"}

func createBooking(vehicleID, date string, startHour int) (string, error) {
	booking := map[string]interface{}{
		"vehicle_id":  vehicleID,
		"date":        date,
		"start_time":  fmt.Sprintf("%02d:00", startHour),
		"end_time":    fmt.Sprintf("%02d:00", startHour+2),
		"destination": destinations[rand.Intn(len(destinations))],
		"purpose":     "Seeded demo trip",
		"requester":   drivers[rand.Intn(len(drivers))],
		"department":  "Operations",
	}

	resp, err := authorizedRequest(http.MethodPost, apiURL+"/bookings", booking)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("booking creation failed with status %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid booking ID in response")
	}
	return id, nil
}

func createDriveLog(bookingID string, finalKm float64) error {
	logEntry := map[string]interface{}{
		"from":     "Garage",
		"to":       destinations[rand.Intn(len(destinations))],
		"final_km": finalKm,
		"driver":   drivers[rand.Intn(len(drivers))],
		"purpose":  "Seeded demo trip",
	}

	resp, err := authorizedRequest(http.MethodPut, apiURL+"/bookings/"+bookingID+"/drivelog", logEntry)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("drive log save failed with status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	apiURL = os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	days := 5
	if v := os.Getenv("SEED_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	log.WithFields(log.Fields{"api_url": apiURL, "days": days}).Info("Seeding demo data")

	if err := bootstrapUser(); err != nil {
		log.WithError(err).Fatal("Failed to bootstrap seed user")
	}

	vehicles, err := fetchVehicles()
	if err != nil || len(vehicles) == 0 {
		log.WithError(err).Fatal("Failed to fetch vehicle list")
	}

	createdBookings := 0
	createdLogs := 0
	for _, vehicleID := range vehicles {
		// Each vehicle gets its own monotonically growing odometer chain.
		odometer := 10000 + rand.Float64()*50000
		for day := 0; day < days; day++ {
			date := time.Now().AddDate(0, 0, day-days).Format("2006-01-02")
			for _, startHour := range []int{9, 14} {
				bookingID, err := createBooking(vehicleID, date, startHour)
				if err != nil {
					log.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to create booking")
					continue
				}
				createdBookings++

				odometer += 20 + rand.Float64()*80
				if err := createDriveLog(bookingID, odometer); err != nil {
					log.WithError(err).WithField("booking_id", bookingID).Error("Failed to create drive log")
					continue
				}
				createdLogs++
			}
		}
	}

	log.WithFields(log.Fields{
		"bookings":   createdBookings,
		"drive_logs": createdLogs,
	}).Info("Seeding completed")
}
