package service

import "errors"

// Sentinel errors for service layer
var (
	// ErrNotConfigured means CONTACT_TO or CONTACT_FROM is missing
	ErrNotConfigured = errors.New("contact destination not configured")
	// ErrDelivery means the email provider rejected or did not answer
	ErrDelivery = errors.New("email delivery failed")
)
