package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/db"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/middleware"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/notify"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/schedule"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OvertimeHandler handles overtime applications and their approval stages.
type OvertimeHandler struct {
	overtime  db.OvertimeCollection
	validate  *validator.Validate
	publisher notify.Publisher
}

// NewOvertimeHandler creates a new overtime handler.
func NewOvertimeHandler(overtime db.OvertimeCollection, publisher notify.Publisher) *OvertimeHandler {
	return &OvertimeHandler{
		overtime:  overtime,
		validate:  validator.New(),
		publisher: publisher,
	}
}

func (h *OvertimeHandler) normalizeOvertimeRequest(req *models.OvertimeRequest) (string, bool) {
	start, err := schedule.NormalizeTime(req.StartTime)
	if err != nil {
		return "Invalid start time", false
	}
	end, err := schedule.NormalizeTime(req.EndTime)
	if err != nil {
		return "Invalid end time", false
	}
	req.StartTime = start
	req.EndTime = end

	if err := h.validate.Struct(req); err != nil {
		return "Invalid overtime application: " + err.Error(), false
	}
	if req.StartTime >= req.EndTime {
		return "Start time must be before end time", false
	}
	return "", true
}

// Collection serves /api/overtime: GET lists, POST creates.
func (h *OvertimeHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OvertimeHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if d := r.URL.Query().Get("date"); d != "" {
		filter["date"] = d
	}
	if u := r.URL.Query().Get("user_id"); u != "" {
		filter["user_id"] = u
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := h.overtime.FindOvertime(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch overtime applications", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	apps := []models.OvertimeApplication{}
	if err := cursor.All(r.Context(), &apps); err != nil {
		http.Error(w, "Failed to fetch overtime applications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *OvertimeHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.OvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg, ok := h.normalizeOvertimeRequest(&req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	app := models.OvertimeApplication{
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Applicant:  req.Applicant,
		Department: req.Department,
		Reason:     req.Reason,
		UserID:     claims.UserID,
	}

	id, err := h.overtime.InsertOvertime(r.Context(), app)
	if err != nil {
		http.Error(w, "Failed to create overtime application", http.StatusInternalServerError)
		return
	}

	created, err := h.overtime.FindOvertimeByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch overtime application", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("overtime", notify.ChangeEvent{Action: notify.ActionCreated, ID: id, Data: created})
	writeJSON(w, http.StatusCreated, created)
}

// Item serves /api/overtime/{id} (GET, PUT, DELETE) and
// /api/overtime/{id}/approval (POST).
func (h *OvertimeHandler) Item(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path) // api / overtime / {id} [/ approval]
	switch {
	case len(segments) == 3:
		id := segments[2]
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case len(segments) == 4 && segments[3] == "approval":
		h.approve(w, r, segments[2])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *OvertimeHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	app, err := h.overtime.FindOvertimeByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Overtime application not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *OvertimeHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	existing, err := h.overtime.FindOvertimeByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Overtime application not found", http.StatusNotFound)
		return
	}
	if !claims.CanModify(existing.UserID) {
		http.Error(w, "Only the applicant or an admin may edit this application", http.StatusForbidden)
		return
	}

	var req models.OvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg, ok := h.normalizeOvertimeRequest(&req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	updated := *existing
	updated.Date = req.Date
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	updated.Applicant = req.Applicant
	updated.Department = req.Department
	updated.Reason = req.Reason

	if err := h.overtime.UpdateOvertime(r.Context(), id, updated); err != nil {
		http.Error(w, "Failed to update overtime application", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("overtime", notify.ChangeEvent{Action: notify.ActionUpdated, ID: id, Data: updated})
	writeJSON(w, http.StatusOK, updated)
}

func (h *OvertimeHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	existing, err := h.overtime.FindOvertimeByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Overtime application not found", http.StatusNotFound)
		return
	}
	if !claims.CanModify(existing.UserID) {
		http.Error(w, "Only the applicant or an admin may delete this application", http.StatusForbidden)
		return
	}

	if err := h.overtime.DeleteOvertime(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete overtime application", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("overtime", notify.ChangeEvent{Action: notify.ActionDeleted, ID: id})
	writeMessage(w, http.StatusOK, "Overtime application deleted")
}

// approve toggles one approval stage. Stages carry no ordering: team lead,
// department head and accounting may be checked in any order, independently,
// last write wins. Checking records the actor and time; unchecking clears
// both.
func (h *OvertimeHandler) approve(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.IsValidStage(req.Stage) {
		http.Error(w, "Unknown approval stage", http.StatusBadRequest)
		return
	}

	app, err := h.overtime.FindOvertimeByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Overtime application not found", http.StatusNotFound)
		return
	}

	approval := app.StageApproval(req.Stage)
	if req.Checked {
		now := time.Now()
		approval.Checked = true
		approval.Actor = claims.Username
		approval.CheckedAt = &now
	} else {
		approval.Checked = false
		approval.Actor = ""
		approval.CheckedAt = nil
	}

	if err := h.overtime.UpdateOvertime(r.Context(), id, *app); err != nil {
		http.Error(w, "Failed to update overtime application", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("overtime", notify.ChangeEvent{Action: notify.ActionUpdated, ID: id, Data: app})
	log.WithFields(log.Fields{
		"overtime_id": id,
		"stage":       req.Stage,
		"checked":     req.Checked,
		"actor":       claims.Username,
	}).Info("Approval stage toggled")

	writeJSON(w, http.StatusOK, app)
}
