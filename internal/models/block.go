package models

import "time"

// Block is a directed suppression edge from blocker to blocked. While it
// exists, the blocked party is excluded from the blocker's discovery results
// and neither side may send the other a friend request or activity invite.
type Block struct {
	BlockerID uint `gorm:"primaryKey"`
	BlockedID uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Blocker User `gorm:"foreignKey:BlockerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Blocked User `gorm:"foreignKey:BlockedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
