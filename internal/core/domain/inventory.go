package domain

import (
	"errors"
	"time"
)

var (
	ErrClassificationExists = errors.New("classification already exists")
	ErrVehicleNotFound      = errors.New("vehicle not found")
)

// Classification is a vehicle category (SUV, Sedan, ...).
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle is a single inventory item.
type Vehicle struct {
	ID                 int64   `json:"inv_id"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name,omitempty"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               string  `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int64   `json:"inv_miles"`
	Color              string  `json:"inv_color"`
}

// Comment is a user comment left on a vehicle.
type Comment struct {
	ID        int64     `json:"comment_id"`
	AccountID int64     `json:"account_id"`
	VehicleID int64     `json:"inv_id"`
	Text      string    `json:"comment_text"`
	CreatedAt time.Time `json:"comment_date"`
	FirstName string    `json:"account_firstname,omitempty"`
	LastName  string    `json:"account_lastname,omitempty"`
}
