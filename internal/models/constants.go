package models

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	TripStatusPlanning   = "planning"
	TripStatusDocuments  = "documents"
	TripStatusConfirmed  = "confirmed"
	TripStatusInProgress = "in_progress"
	TripStatusCompleted  = "completed"
)

const (
	DocumentStatusPending  = "pending"
	DocumentStatusSent     = "sent"
	DocumentStatusApproved = "approved"
	DocumentStatusExpired  = "expired"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

const (
	PurchaseStatusPlanned = "planned"
	PurchaseStatusBought  = "bought"
)

// TripStatuses lists every valid trip status, in lifecycle order.
var TripStatuses = []string{
	TripStatusPlanning,
	TripStatusDocuments,
	TripStatusConfirmed,
	TripStatusInProgress,
	TripStatusCompleted,
}

// ValidTripStatus reports whether s is a known trip status.
func ValidTripStatus(s string) bool {
	for _, status := range TripStatuses {
		if s == status {
			return true
		}
	}
	return false
}
