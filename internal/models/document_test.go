package models

import (
	"testing"
	"time"
)

func TestReconcileExpiration(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		doc        Document
		wantChange bool
		wantStatus string
	}{
		{
			name:       "sent document past expiry flips to expired",
			doc:        Document{Status: DocumentStatusSent, ExpirationDate: &past},
			wantChange: true,
			wantStatus: DocumentStatusExpired,
		},
		{
			name:       "approved document past expiry flips to expired",
			doc:        Document{Status: DocumentStatusApproved, ExpirationDate: &past},
			wantChange: true,
			wantStatus: DocumentStatusExpired,
		},
		{
			name:       "already expired document is untouched",
			doc:        Document{Status: DocumentStatusExpired, ExpirationDate: &past},
			wantChange: false,
			wantStatus: DocumentStatusExpired,
		},
		{
			name:       "future expiry is untouched",
			doc:        Document{Status: DocumentStatusSent, ExpirationDate: &future},
			wantChange: false,
			wantStatus: DocumentStatusSent,
		},
		{
			name:       "no expiry is untouched",
			doc:        Document{Status: DocumentStatusPending},
			wantChange: false,
			wantStatus: DocumentStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := ReconcileExpiration(&tt.doc, now)
			if changed != tt.wantChange {
				t.Errorf("ReconcileExpiration() = %v, want %v", changed, tt.wantChange)
			}
			if tt.doc.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", tt.doc.Status, tt.wantStatus)
			}
		})
	}
}
