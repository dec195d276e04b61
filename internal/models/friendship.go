package models

import "time"

// Friendship is a single undirected edge between two users. The pair is
// normalized so that UserAID < UserBID, which makes the composite key unique
// per unordered pair. Friendships are created only when a friend request is
// accepted, inside the same transaction as the status update.
type Friendship struct {
	UserAID   uint `gorm:"primaryKey"`
	UserBID   uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserA User `gorm:"foreignKey:UserAID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserB User `gorm:"foreignKey:UserBID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// NewFriendship builds the normalized edge for an unordered pair.
func NewFriendship(a, b uint) Friendship {
	if a > b {
		a, b = b, a
	}
	return Friendship{UserAID: a, UserBID: b}
}

// OtherSide returns the counterpart of userID on this edge.
func (f *Friendship) OtherSide(userID uint) uint {
	if f.UserAID == userID {
		return f.UserBID
	}
	return f.UserAID
}
