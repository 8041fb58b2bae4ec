package models

import "gorm.io/gorm"

type Lecture struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title" gorm:"not null"`
	VideoURL      string `json:"video_url" gorm:"default:''"`
	Position      int    `json:"position" gorm:"default:0"`
	IsPreviewFree bool   `json:"is_preview_free" gorm:"default:false"`
	IsDeleted     bool   `gorm:"default:false"`
}
