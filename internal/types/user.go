package types

type UserResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	FamilyID       *uint  `json:"family_id"`
	DriveConnected bool   `json:"drive_connected"`
}
