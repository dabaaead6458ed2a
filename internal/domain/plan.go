package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus is the lifecycle state of a recovery plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
)

// Plan is a time-boxed behavior-change plan owned by exactly one user.
// StartDate and EndDate are canonical "YYYY-MM-DD" day keys; all date math on
// them goes through the calendar package. EndDate is exclusive: the last day
// a check-in is expected is EndDate minus one day.
type Plan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	TemplateKey  string             `bson:"templateKey" json:"templateKey"`
	StartDate    string             `bson:"startDate" json:"startDate"`
	EndDate      string             `bson:"endDate" json:"endDate"`
	DurationDays int                `bson:"durationDays" json:"durationDays"`
	ReminderTime string             `bson:"reminderTime" json:"reminderTime"` // local "HH:MM"
	Status       PlanStatus         `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the plan still accepts the active lifecycle.
func (p *Plan) IsActive() bool {
	return p.Status == PlanStatusActive
}

// CheckIn is one day's answer for a plan. At most one exists per plan per
// calendar day; a repeated submission for the same day overwrites
// FollowedSteps and Notes instead of adding a second row.
type CheckIn struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID        primitive.ObjectID `bson:"planId" json:"planId"`
	Date          string             `bson:"date" json:"date"` // "YYYY-MM-DD"
	FollowedSteps bool               `bson:"followedSteps" json:"followedSteps"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
