package models

import "time"

// NotificationType labels the event a notification describes.
type NotificationType string

const (
	NotificationFriendRequest   NotificationType = "friend_request"
	NotificationRequestAccepted NotificationType = "request_accepted"
	NotificationRequestRejected NotificationType = "request_rejected"
	NotificationActivityInvite  NotificationType = "activity_invite"
	NotificationNewActivity     NotificationType = "new_activity"
)

// Notification is an append-only event record delivered to a receiver.
// Rows are written inside the same transaction as the mutation they
// describe, so a failed write aborts the whole operation.
type Notification struct {
	ID         uint             `gorm:"primaryKey"`
	ReceiverID uint             `gorm:"not null;index:idx_notifications_inbox"`
	SenderID   uint             `gorm:"not null"`
	Type       NotificationType `gorm:"size:50;not null"`
	ActivityID *uint
	Read       bool `gorm:"not null;default:false;index:idx_notifications_inbox"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender User `gorm:"foreignKey:SenderID"`
}
