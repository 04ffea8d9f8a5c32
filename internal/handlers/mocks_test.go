package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/db"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/middleware"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- cursors -------------------------------------------------------------

type bookingCursor struct{ items []models.Booking }

func (c *bookingCursor) All(ctx context.Context, out interface{}) error {
	*(out.(*[]models.Booking)) = c.items
	return nil
}
func (c *bookingCursor) Close(ctx context.Context) error { return nil }

type driveLogCursor struct{ items []models.DriveLog }

func (c *driveLogCursor) All(ctx context.Context, out interface{}) error {
	*(out.(*[]models.DriveLog)) = c.items
	return nil
}
func (c *driveLogCursor) Close(ctx context.Context) error { return nil }

type overtimeCursor struct{ items []models.OvertimeApplication }

func (c *overtimeCursor) All(ctx context.Context, out interface{}) error {
	*(out.(*[]models.OvertimeApplication)) = c.items
	return nil
}
func (c *overtimeCursor) Close(ctx context.Context) error { return nil }

func filterMatches(f bson.M, fields map[string]string) bool {
	for key, value := range fields {
		if want, ok := f[key]; ok && want != value {
			return false
		}
	}
	return true
}

// --- bookings ------------------------------------------------------------

type mockBookingCollection struct {
	bookings  []models.Booking
	insertErr error
	findErr   error
}

func (m *mockBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	m.bookings = append(m.bookings, booking)
	return booking.ID.Hex(), nil
}

func (m *mockBookingCollection) FindBookings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	f, _ := filter.(bson.M)
	items := []models.Booking{}
	for _, b := range m.bookings {
		if filterMatches(f, map[string]string{"vehicle_id": b.VehicleID, "date": b.Date}) {
			items = append(items, b)
		}
	}
	return &bookingCursor{items: items}, nil
}

func (m *mockBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			b := m.bookings[i]
			return &b, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (m *mockBookingCollection) UpdateBooking(ctx context.Context, id string, booking models.Booking) error {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			booking.ID = m.bookings[i].ID
			m.bookings[i] = booking
			return nil
		}
	}
	return errors.New("booking not found")
}

func (m *mockBookingCollection) DeleteBooking(ctx context.Context, id string) error {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return errors.New("booking not found")
}

// --- drive logs ----------------------------------------------------------

type mockDriveLogCollection struct {
	logs []models.DriveLog
}

func (m *mockDriveLogCollection) UpsertDriveLog(ctx context.Context, log models.DriveLog) error {
	for i := range m.logs {
		if m.logs[i].BookingID == log.BookingID {
			log.ID = m.logs[i].ID
			log.CreatedAt = m.logs[i].CreatedAt
			log.UpdatedAt = time.Now()
			m.logs[i] = log
			return nil
		}
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockDriveLogCollection) FindDriveLogs(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	f, _ := filter.(bson.M)
	items := []models.DriveLog{}
	for _, l := range m.logs {
		if filterMatches(f, map[string]string{"vehicle_id": l.VehicleID, "date": l.Date, "booking_id": l.BookingID}) {
			items = append(items, l)
		}
	}
	return &driveLogCursor{items: items}, nil
}

func (m *mockDriveLogCollection) FindDriveLogByBookingID(ctx context.Context, bookingID string) (*models.DriveLog, error) {
	for i := range m.logs {
		if m.logs[i].BookingID == bookingID {
			l := m.logs[i]
			return &l, nil
		}
	}
	return nil, errors.New("drive log not found")
}

func (m *mockDriveLogCollection) DeleteDriveLogByBookingID(ctx context.Context, bookingID string) error {
	for i := range m.logs {
		if m.logs[i].BookingID == bookingID {
			m.logs = append(m.logs[:i], m.logs[i+1:]...)
			return nil
		}
	}
	return errors.New("drive log not found")
}

// --- overtime ------------------------------------------------------------

type mockOvertimeCollection struct {
	apps []models.OvertimeApplication
}

func (m *mockOvertimeCollection) InsertOvertime(ctx context.Context, app models.OvertimeApplication) (string, error) {
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	m.apps = append(m.apps, app)
	return app.ID.Hex(), nil
}

func (m *mockOvertimeCollection) FindOvertime(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	f, _ := filter.(bson.M)
	items := []models.OvertimeApplication{}
	for _, a := range m.apps {
		if filterMatches(f, map[string]string{"date": a.Date, "user_id": a.UserID}) {
			items = append(items, a)
		}
	}
	return &overtimeCursor{items: items}, nil
}

func (m *mockOvertimeCollection) FindOvertimeByID(ctx context.Context, id string) (*models.OvertimeApplication, error) {
	for i := range m.apps {
		if m.apps[i].ID.Hex() == id {
			a := m.apps[i]
			return &a, nil
		}
	}
	return nil, errors.New("overtime application not found")
}

func (m *mockOvertimeCollection) UpdateOvertime(ctx context.Context, id string, app models.OvertimeApplication) error {
	for i := range m.apps {
		if m.apps[i].ID.Hex() == id {
			app.ID = m.apps[i].ID
			m.apps[i] = app
			return nil
		}
	}
	return errors.New("overtime application not found")
}

func (m *mockOvertimeCollection) DeleteOvertime(ctx context.Context, id string) error {
	for i := range m.apps {
		if m.apps[i].ID.Hex() == id {
			m.apps = append(m.apps[:i], m.apps[i+1:]...)
			return nil
		}
	}
	return errors.New("overtime application not found")
}

// --- users ---------------------------------------------------------------

type mockUserCollection struct {
	users []models.User
}

func (m *mockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserCollection) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID.Hex() == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	for i := range m.users {
		if m.users[i].ID.Hex() == id {
			m.users[i] = user
			return nil
		}
	}
	return errors.New("user not found")
}

func (m *mockUserCollection) DeleteUser(ctx context.Context, id string) error { return nil }

func (m *mockUserCollection) UpdateLastLogin(ctx context.Context, id string) error { return nil }

func (m *mockUserCollection) SetAllowed(ctx context.Context, id string, allowed bool) error {
	for i := range m.users {
		if m.users[i].ID.Hex() == id {
			m.users[i].Allowed = allowed
			return nil
		}
	}
	return errors.New("user not found")
}

// --- request helpers -----------------------------------------------------

func memberClaims(userID string) *models.Claims {
	return &models.Claims{UserID: userID, Username: "tester", Role: models.RoleMember}
}

func adminClaims() *models.Claims {
	return &models.Claims{UserID: primitive.NewObjectID().Hex(), Username: "admin", Role: models.RoleAdmin}
}

// newRequest builds an httptest request with an optional JSON body and
// optional authenticated claims in the context.
func newRequest(method, target string, payload interface{}, claims *models.Claims) *http.Request {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if claims != nil {
		ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
		req = req.WithContext(ctx)
	}
	return req
}
