package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApprovalStage identifies one of the overtime approval checkboxes.
type ApprovalStage string

const (
	StageTeamLead       ApprovalStage = "team_lead"
	StageDepartmentHead ApprovalStage = "department_head"
	StageAccounting     ApprovalStage = "accounting"
)

// IsValidStage checks if a stage name is one of the known approval stages.
func IsValidStage(stage ApprovalStage) bool {
	switch stage {
	case StageTeamLead, StageDepartmentHead, StageAccounting:
		return true
	default:
		return false
	}
}

// Approval is one stage's checkbox state with the actor and time of the toggle.
type Approval struct {
	Checked   bool       `json:"checked" bson:"checked"`
	Actor     string     `json:"actor,omitempty" bson:"actor,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty" bson:"checked_at,omitempty"`
}

// OvertimeApplication represents one overtime request and its approval state.
// The three stages are independent: any stage may be checked or unchecked
// regardless of the others, last write wins.
type OvertimeApplication struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Date           string             `json:"date" bson:"date"`             // "YYYY-MM-DD"
	StartTime      string             `json:"start_time" bson:"start_time"` // "HH:MM"
	EndTime        string             `json:"end_time" bson:"end_time"`
	Applicant      string             `json:"applicant" bson:"applicant"`
	Department     string             `json:"department" bson:"department"`
	Reason         string             `json:"reason" bson:"reason"`
	UserID         string             `json:"user_id" bson:"user_id"`
	TeamLead       Approval           `json:"team_lead" bson:"team_lead"`
	DepartmentHead Approval           `json:"department_head" bson:"department_head"`
	Accounting     Approval           `json:"accounting" bson:"accounting"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// StageApproval returns a pointer to the approval field for the given stage,
// or nil for an unknown stage.
func (o *OvertimeApplication) StageApproval(stage ApprovalStage) *Approval {
	switch stage {
	case StageTeamLead:
		return &o.TeamLead
	case StageDepartmentHead:
		return &o.DepartmentHead
	case StageAccounting:
		return &o.Accounting
	default:
		return nil
	}
}

// OvertimeRequest is the payload for creating or updating an overtime application.
type OvertimeRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	Applicant  string `json:"applicant" validate:"required,max=100"`
	Department string `json:"department" validate:"max=100"`
	Reason     string `json:"reason" validate:"max=500"`
}

// ApprovalRequest toggles one approval stage on an overtime application.
type ApprovalRequest struct {
	Stage   ApprovalStage `json:"stage" validate:"required"`
	Checked bool          `json:"checked"`
}
