package models

import "time"

// Machine: máquina expendedora del roster
type Machine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Location  string    `gorm:"size:255" json:"location"`
	Position  int       `gorm:"index;not null;default:0" json:"position"` // orden dentro del roster
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
