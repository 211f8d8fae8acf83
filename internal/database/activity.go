package database

import (
	"log"
	"time"

	"vivero-api/internal/models"
)

// LogActivity appends one row to the audit trail. Failures are logged
// and swallowed so an audit hiccup never breaks the business operation.
func LogActivity(userID, action, details string) {
	entry := models.ActivityLog{
		UserID:   userID,
		Action:   action,
		Details:  details,
		LoggedAt: time.Now(),
	}
	if err := DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to record activity %q: %v", action, err)
	}
}
