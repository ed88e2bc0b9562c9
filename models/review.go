package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a customer review of a catalog product.
// Only approved reviews are shown; new reviews wait as pending.
type Review struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"productId"`
	ProductType ProductType  `json:"productType"`
	ProductName string       `json:"productName"`
	Rating      int          `json:"rating"`
	Title       string       `json:"title"`
	Comment     string       `json:"comment"`
	UserName    string       `json:"userName"`
	UserEmail   string       `json:"-"`
	Status      ReviewStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SubmitReviewRequest represents the request body for submitting a review
// Example request body:
// {"rating": 5, "title": "Great phone", "comment": "Battery lasts two days", "userName": "Ana", "userEmail": "ana@example.com"}
type SubmitReviewRequest struct {
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// Normalize trims every field and lowercases the email
func (r SubmitReviewRequest) Normalize() SubmitReviewRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Comment = strings.TrimSpace(r.Comment)
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserEmail = NormalizeEmail(r.UserEmail)
	return r
}

// Validate checks a normalized request
func (r SubmitReviewRequest) Validate() error {
	if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
		return fmt.Errorf("rating must be between %d and %d", MinReviewRating, MaxReviewRating)
	}
	if r.Title == "" || r.Comment == "" || r.UserName == "" || r.UserEmail == "" {
		return fmt.Errorf("title, comment, userName and userEmail are required")
	}
	if addr, err := mail.ParseAddress(r.UserEmail); err != nil || addr.Address != r.UserEmail {
		return fmt.Errorf("userEmail is not a valid email address")
	}
	return nil
}

// NormalizeEmail trims and lowercases an email so one reviewer matches across submissions
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ReviewListResponse lists approved reviews, newest first
type ReviewListResponse struct {
	Success bool     `json:"success"`
	Data    []Review `json:"data"`
}

// ReviewResponse is returned after submitting a review
// Example response:
// {"success": true, "message": "Review submitted and awaiting approval", "data": {"id": "...", "status": "pending", ...}}
type ReviewResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Review `json:"data"`
}

// ReviewCheckResponse reports whether an email has already reviewed a product
type ReviewCheckResponse struct {
	Success bool `json:"success"`
	Data    struct {
		HasReviewed bool `json:"hasReviewed"`
	} `json:"data"`
}
