package models

import "time"

type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	PassHash []byte `json:"passwordHash"`
	// DeviceID is empty until the account registers a device.
	// At most one device is bound at any time; re-registration overwrites.
	DeviceID string `json:"boundDeviceId,omitempty"`
}

// HasDevice reports whether a device is currently bound to the account.
func (a *Account) HasDevice() bool {
	return a.DeviceID != ""
}

type DeviceBoundEvent struct {
	AccountID string    `json:"accountId"`
	DeviceID  string    `json:"deviceId"`
	BoundAt   time.Time `json:"boundAt"`
}
