package models

import "gorm.io/gorm"

// CourseProgress is created empty when a purchase completes. It may also be
// created lazily on first access, since the post-purchase updates are not
// transactional and a crash can leave a completed purchase without one.
type CourseProgress struct {
	gorm.Model
	UserID          uint              `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID        uint              `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	Completed       bool              `json:"completed" gorm:"default:false"`
	LectureProgress []LectureProgress `json:"lecture_progress" gorm:"foreignKey:CourseProgressID"`
}

type LectureProgress struct {
	gorm.Model
	CourseProgressID uint `json:"course_progress_id" gorm:"index;not null"`
	LectureID        uint `json:"lecture_id" gorm:"index;not null"`
	Viewed           bool `json:"viewed" gorm:"default:false"`
}
