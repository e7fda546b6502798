package model

import "time"

// UserProfile is the single local profile. PIN holds a bcrypt hash; profiles
// restored from older backups may still carry the 8-digit plaintext value.
type UserProfile struct {
	Username          string `json:"username"`
	PIN               string `json:"pin"`
	Avatar            string `json:"avatar,omitempty"`
	BiometricsEnabled bool   `json:"biometricsEnabled,omitempty"`
}

// UserUpdate carries the profile fields to merge; nil fields are left alone.
type UserUpdate struct {
	Username          *string
	PIN               *string
	Avatar            *string
	BiometricsEnabled *bool
}

// BackupPayload is the unit exchanged by export and import.
type BackupPayload struct {
	Timestamp    time.Time      `json:"timestamp"`
	User         *UserProfile   `json:"user"`
	Transactions []Transaction  `json:"transactions"`
	Accounts     []Account      `json:"accounts"`
	Budgets      []Budget       `json:"budgets"`
	Categories   []CategoryItem `json:"categories"`
}
