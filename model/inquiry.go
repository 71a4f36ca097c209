package model

import "time"

// Inquiry is the archived copy of a contact submission that was dispatched
// successfully. The archive is an operator convenience; the email is the
// source of truth.
type Inquiry struct {
	ID             string    `json:"id" gorm:"primaryKey;type:text;not null"`
	FirstName      string    `json:"first_name" gorm:"not null;size:50"`
	LastName       string    `json:"last_name" gorm:"not null;size:50"`
	Email          string    `json:"email" gorm:"not null;index;size:254"`
	Phone          string    `json:"phone,omitempty" gorm:"size:20"`
	Message        string    `json:"message" gorm:"type:text;not null"`
	ProductContext string    `json:"product_context,omitempty" gorm:"size:255"`
	Status         string    `json:"status" gorm:"not null;index;size:20;default:'unread'"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null"`
}
