package models

import "time"

// Like is a directed interest edge from one user to another. At most one
// row exists per ordered pair; unliking deletes the row.
type Like struct {
	LikerID   uint `gorm:"primaryKey"`
	LikedID   uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Liker User `gorm:"foreignKey:LikerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Liked User `gorm:"foreignKey:LikedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
