package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title           string    `json:"title" gorm:"not null"`
	Subtitle        string    `json:"subtitle" gorm:"default:''"`
	Description     string    `json:"description"`
	Category        string    `json:"category" gorm:"default:''"`
	Level           string    `json:"level" gorm:"default:'Beginner'"` // Beginner, Medium, Advance
	Price           uint      `json:"price" gorm:"default:0"`          // in INR, 0 = not purchasable
	ThumbnailURL    string    `json:"thumbnail_url" gorm:"default:''"`
	CreatorID       uint      `json:"creator_id" gorm:"index;not null"`
	Creator         User      `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Lectures        []Lecture `json:"lectures,omitempty" gorm:"foreignKey:CourseID"`
	EnrollmentCount uint      `json:"enrollment_count" gorm:"default:0"`
	IsPublished     bool      `json:"is_published" gorm:"default:false"`
	IsDeleted       bool      `gorm:"default:false"`
}
