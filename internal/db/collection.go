package db

import (
	"context"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cursor defines the interface shared by all collection cursors.
type Cursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// BookingCollection defines the interface for booking data operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (string, error)
	FindBookings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, booking models.Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// DriveLogCollection defines the interface for drive-log data operations.
// One log per booking: writes go through UpsertDriveLog keyed by booking id.
type DriveLogCollection interface {
	UpsertDriveLog(ctx context.Context, log models.DriveLog) error
	FindDriveLogs(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindDriveLogByBookingID(ctx context.Context, bookingID string) (*models.DriveLog, error)
	DeleteDriveLogByBookingID(ctx context.Context, bookingID string) error
}

// OvertimeCollection defines the interface for overtime-application operations.
type OvertimeCollection interface {
	InsertOvertime(ctx context.Context, app models.OvertimeApplication) (string, error)
	FindOvertime(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindOvertimeByID(ctx context.Context, id string) (*models.OvertimeApplication, error)
	UpdateOvertime(ctx context.Context, id string, app models.OvertimeApplication) error
	DeleteOvertime(ctx context.Context, id string) error
}

// UserCollection defines the interface for user database operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	CountUsers(ctx context.Context) (int64, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetAllowed(ctx context.Context, id string, allowed bool) error
}
