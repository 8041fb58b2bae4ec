package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                 string     `json:"name" gorm:"default:''"`
	Email                string     `json:"email" gorm:"unique;not null"`
	Mobile               string     `json:"mobile" gorm:"default:''"`
	Role                 string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR
	Password             string     `json:"-" gorm:"not null"`
	PhotoURL             string     `json:"photo_url" gorm:"default:''"`
	TotalCoursesEnrolled uint       `json:"total_courses_enrolled" gorm:"default:0"`
	LastLogin            *time.Time `json:"last_login"`
	IsDeleted            bool       `gorm:"default:false"`
}
