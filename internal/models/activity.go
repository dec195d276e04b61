package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is a hostable, capacity-bounded event. Attendance is tracked in
// ActivityAttendee rows; AttendeeCount is denormalized and must always equal
// the number of rows. Private activities gate attendance behind
// ActivityRequest rows that the host approves or rejects.
type Activity struct {
	gorm.Model
	HostID    uint   `gorm:"not null;index"`
	Name      string `gorm:"size:255;not null"`
	Category  string `gorm:"size:100;index"`
	Venue     string
	Note      string
	Date      string `gorm:"size:20"`
	StartTime string `gorm:"size:20"`
	EndTime   string `gorm:"size:20"`

	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string

	MaximumGuests int  `gorm:"not null"`
	IsPrivate     bool `gorm:"not null;default:false;index"`

	// Kept in lockstep with the ActivityAttendee rows via atomic
	// conditional increments; never written from a read-modify-write.
	AttendeeCount int `gorm:"not null;default:0"`

	Host User `gorm:"foreignKey:HostID"`
}

// ActivityAttendee records one confirmed attendee of an activity. The host
// never has a row; a user has at most one row per activity and never a row
// here and in ActivityRequest at the same time.
type ActivityAttendee struct {
	ActivityID uint `gorm:"primaryKey"`
	UserID     uint `gorm:"primaryKey;index"`
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}

// ActivityRequest records one pending attendance request against a private
// activity, awaiting the host's decision.
type ActivityRequest struct {
	ActivityID uint `gorm:"primaryKey"`
	UserID     uint `gorm:"primaryKey;index"`
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}
