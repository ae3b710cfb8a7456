package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant is a listing entry.
type Restaurant struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Cuisine   string    `json:"cuisine" gorm:"size:100"`
	Address   string    `json:"address" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// SampleRestaurants are inserted when the listing is empty.
func SampleRestaurants() []Restaurant {
	return []Restaurant{
		{Name: "Pasta Palace", Cuisine: "Italian", Address: "12 Harbour Street"},
		{Name: "Sushi Central", Cuisine: "Japanese", Address: "48 Market Square"},
	}
}
