package models

import "time"

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

// Alert statuses.
const (
	AlertActive   AlertStatus = "ACTIVE"
	AlertResolved AlertStatus = "RESOLVED"
)

// Alert is a free-text vehicle notification.
type Alert struct {
	ID        int64       `db:"id" json:"id"`
	VehicleID string      `db:"vehicle_id" json:"vehicle_id"`
	Timestamp time.Time   `db:"timestamp" json:"timestamp"`
	AlertType string      `db:"alert_type" json:"alert_type"`
	Status    AlertStatus `db:"status" json:"status"`
}
