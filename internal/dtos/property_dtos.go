package dtos

import (
	"github.com/rentopedia/rentals-service/internal/models"
)

type CreatePropertyRequest struct {
	Title       string   `json:"title" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	SubCategory string   `json:"subCategory"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Deposit     float64  `json:"deposit" validate:"gte=0"`
	RentType    string   `json:"rentType"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images" validate:"dive,url"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ProfileResponse is the public user page: account plus owned listings.
type ProfileResponse struct {
	User       *models.User       `json:"user"`
	Properties []*models.Property `json:"properties"`
}
