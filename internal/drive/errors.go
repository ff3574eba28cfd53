package drive

import (
	"errors"
	"fmt"
)

// ErrAuthExpired maps a 401 from the Drive API: the stored Google session is
// no longer valid and the owner must reconnect.
var ErrAuthExpired = errors.New("Google Drive session expired, reconnect your account")

// Error is any non-auth failure returned by the Drive API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Google Drive request failed (%d): %s", e.StatusCode, e.Message)
}

// CredentialMissingError means the resolved drive owner has never connected a
// Google account. Self distinguishes "connect your account" from "the family
// admin must connect theirs".
type CredentialMissingError struct {
	Self bool
}

func (e *CredentialMissingError) Error() string {
	if e.Self {
		return "Connect your Google account to upload documents to Drive"
	}
	return "The family admin must connect their Google account before documents can be uploaded"
}
