package api

import (
	"github.com/colonyops/callbell/internal/core/reminder"
)

// Endpoint paths, relative to the configured base URL.
const (
	PathNotifications = "/api/notifications/"
	PathSettings      = "/api/settings/"
	PathSettingsSave  = "/api/settings/save/"
	PathCalls         = "/api/calls/"
	PathCallNoAnswer  = "/api/calls/update/"
	PathCallComplete  = "/api/calls/complete/"
	PathCallPostpone  = "/api/calls/postpone/"
	PathCallAdd       = "/api/calls/add/"
	PathTracking      = "/api/tracking/"
	PathSound         = "/static/sounds/notification.mp3"
)

// CSRF names used by the backend.
const (
	CSRFCookie    = "csrftoken"
	CSRFHeader    = "X-CSRFToken"
	SessionCookie = "sessionid"
)

// Notification is a due reminder as it appears on the wire.
type Notification struct {
	ID          ID     `json:"id"`
	Comment     string `json:"comment"`
	Phone       string `json:"phone"`
	NextAttempt string `json:"next_attempt"`
	CallType    string `json:"call_type"`
}

// Record converts the wire shape into a reminder record.
func (n Notification) Record() reminder.Record {
	return reminder.Record{
		CallID:      n.ID.String(),
		Phone:       n.Phone,
		Comment:     n.Comment,
		ScheduledAt: n.NextAttempt,
		CallType:    n.CallType,
	}
}

type notificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

// Call is one row of the call list.
type Call struct {
	ID                 ID     `json:"id"`
	Comment            string `json:"comment"`
	Phone              string `json:"phone"`
	FirstAttempt       string `json:"first_attempt"`
	NextAttempt        string `json:"next_attempt"`
	AttemptNumber      int    `json:"attempt_number"`
	TimeUntil          string `json:"time_until"`
	NotificationStatus string `json:"notification_status"`
	CallType           string `json:"call_type"`
}

type callsResponse struct {
	Calls []Call `json:"calls"`
}

// Tracking is one tracked claim linked to a call.
type Tracking struct {
	TrackingID         ID     `json:"tracking_id"`
	Claim              string `json:"claim"`
	Phone              string `json:"phone"`
	CRM                string `json:"crm"`
	ConnectionDatetime string `json:"connection_datetime"`
	CallRecordID       *ID    `json:"call_record_id"`
	Status             string `json:"status"`
	Completed          bool   `json:"completed"`
}

type trackingResponse struct {
	Tracking []Tracking `json:"tracking"`
}

// NewCall is a call to schedule. NextAttempt is local wall time in
// "2006-01-02T15:04" form; empty lets the backend pick the first interval.
type NewCall struct {
	Comment     string `json:"comment"`
	Phone       string `json:"phone"`
	CallType    string `json:"call_type,omitempty"`
	NextAttempt string `json:"next_attempt,omitempty"`
}

type addCallResponse struct {
	Status string `json:"status"`
	ID     ID     `json:"id"`
}
