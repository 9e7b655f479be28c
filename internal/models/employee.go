package models

import "time"

type Employee struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"size:120;not null" json:"firstName"`
	LastName   string    `gorm:"size:120;not null" json:"lastName"`
	Email      string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone      string    `gorm:"size:50" json:"phone"`
	JobTitleID uint      `gorm:"index" json:"jobTitleId"`
	OfficeID   uint      `gorm:"index" json:"officeId"`
	WorkStart  string    `gorm:"size:8" json:"workStart"`
	WorkEnd    string    `gorm:"size:8" json:"workEnd"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
