package models

import "time"

// Request models
type InsertBookRequest struct {
	ISBN            string  `json:"isbn" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	Publisher       string  `json:"publisher" binding:"required"`
	PublicationDate string  `json:"publicationDate" binding:"required"`
	Category        string  `json:"category" binding:"required,oneof=Fiction Non-Fiction Reference Periodicals Other"`
	Description     *string `json:"description"`
	Status          string  `json:"status" binding:"omitempty,oneof=Available 'Checked Out' Reserved Processing Lost Damaged"`
}

type UpdateBookRequest struct {
	ISBN            *string `json:"isbn"`
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Publisher       *string `json:"publisher"`
	PublicationDate *string `json:"publicationDate"`
	Category        *string `json:"category" binding:"omitempty,oneof=Fiction Non-Fiction Reference Periodicals Other"`
	Description     *string `json:"description"`
	Status          *string `json:"status" binding:"omitempty,oneof=Available 'Checked Out' Reserved Processing Lost Damaged"`
}

type InsertPatronRequest struct {
	Name             string `json:"name" binding:"required"`
	ContactInfo      string `json:"contactInfo" binding:"required"`
	MembershipStatus string `json:"membershipStatus" binding:"omitempty,oneof=Active Inactive Suspended"`
}

type UpdatePatronRequest struct {
	Name             *string `json:"name"`
	ContactInfo      *string `json:"contactInfo"`
	MembershipStatus *string `json:"membershipStatus" binding:"omitempty,oneof=Active Inactive Suspended"`
}

type CheckoutRequest struct {
	BookID   int64     `json:"bookId" binding:"required"`
	PatronID int64     `json:"patronId" binding:"required"`
	DueDate  time.Time `json:"dueDate" binding:"required"`
	Notes    *string   `json:"notes"`
}

type ReturnRequest struct {
	BookID int64   `json:"bookId" binding:"required"`
	Notes  *string `json:"notes"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Response models
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
