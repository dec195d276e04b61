package models

import "time"

// RequestStatus defines the lifecycle state of a friend request.
type RequestStatus string

const (
	// RequestPending means the request has been sent but not yet answered.
	RequestPending RequestStatus = "pending"

	// RequestAccepted means the receiver accepted; a Friendship was created
	// in the same transaction.
	RequestAccepted RequestStatus = "accepted"

	// RequestRejected means the receiver declined. Terminal: a fresh attempt
	// needs a new request. A withdrawn request is deleted outright, so no
	// cancelled state exists.
	RequestRejected RequestStatus = "rejected"
)

// FriendRequest is a directed proposal from sender to receiver.
// At most one pending request may exist between any pair of users,
// regardless of direction.
type FriendRequest struct {
	ID         uint          `gorm:"primaryKey"`
	SenderID   uint          `gorm:"not null;index"`
	ReceiverID uint          `gorm:"not null;index"`
	Status     RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
