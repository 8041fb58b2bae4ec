package models

import "gorm.io/gorm"

// Enrollment links a user to a course they own. One row per (user, course);
// FirstOrCreate on the pair keeps enrollment set-based so re-running the
// post-purchase updates cannot duplicate it.
type Enrollment struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID  uint   `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	User      User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course    Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	IsDeleted bool   `gorm:"default:false"`
}
