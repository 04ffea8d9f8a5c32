package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/auth"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/db"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/handlers"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/middleware"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/notify"
	log "github.com/sirupsen/logrus"
)

func newPublisher() notify.Publisher {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		log.Info("MQTT_BROKER_URL not set, change notifications disabled")
		return notify.NopPublisher{}
	}
	publisher, err := notify.NewMQTTPublisher(brokerURL, "drivenote-server", os.Getenv("MQTT_TOPIC_PREFIX"))
	if err != nil {
		log.WithError(err).Warn("MQTT broker unreachable, change notifications disabled")
		return notify.NopPublisher{}
	}
	log.WithField("broker", brokerURL).Info("Change notifications enabled")
	return publisher
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(db.DatabaseName())
	bookings := &db.MongoBookingCollection{Collection: database.Collection("bookings")}
	driveLogs := &db.MongoDriveLogCollection{Collection: database.Collection("drivelogs")}
	overtime := &db.MongoOvertimeCollection{Collection: database.Collection("overtime")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	publisher := newPublisher()
	defer publisher.Close()

	authHandler := handlers.NewAuthHandler(authService, users)
	bookingHandler := handlers.NewBookingHandler(bookings, publisher)
	driveLogHandler := handlers.NewDriveLogHandler(bookings, driveLogs, publisher)
	vehicleHandler := handlers.NewVehicleHandler(bookings, driveLogs)
	overtimeHandler := handlers.NewOvertimeHandler(overtime, publisher)

	authMiddleware := middleware.NewAuthMiddleware(authService, users)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.Handle("/api/users/", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(authHandler.AllowUser)))

	mux.HandleFunc("/api/bookings", bookingHandler.Collection)
	mux.HandleFunc("/api/bookings/", func(w http.ResponseWriter, r *http.Request) {
		// /api/bookings/{id}/drivelog is the nested drive-log resource.
		if strings.HasSuffix(r.URL.Path, "/drivelog") {
			driveLogHandler.Item(w, r)
			return
		}
		bookingHandler.Item(w, r)
	})

	mux.HandleFunc("/api/drivelogs", driveLogHandler.List)
	mux.HandleFunc("/api/vehicles", vehicleHandler.List)
	mux.HandleFunc("/api/vehicles/", vehicleHandler.Item)
	mux.HandleFunc("/api/overtime", overtimeHandler.Collection)
	mux.HandleFunc("/api/overtime/", overtimeHandler.Item)

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
