package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	UserName     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
	Bio          string
	Gender       string `gorm:"size:20"`
	Country      string `gorm:"size:100"`

	// Last reported position. Nil until the client reports one; discovery
	// endpoints reject users without a position.
	Latitude  *float64
	Longitude *float64

	// Search radius for discovery, in miles.
	DistancePreference float64 `gorm:"not null;default:10"`
}

// HasLocation reports whether the user has ever reported a position.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
