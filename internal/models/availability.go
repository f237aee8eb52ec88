package models

import "fmt"

// Availability is a doctor's offered time slots for a single calendar day.
// A new submission replaces the prior entry for that day wholesale; there
// are no merge semantics. When no entry exists for a (doctor, date) pair,
// DefaultSlotTemplate applies.
type Availability struct {
	BaseModel
	DoctorID    string   `gorm:"size:36;uniqueIndex:idx_doctor_date,priority:1" json:"doctorId"`
	Date        string   `gorm:"size:10;uniqueIndex:idx_doctor_date,priority:2" json:"date"`
	TimeSlots   []string `gorm:"serializer:json;type:text" json:"timeSlots"`
	IsAvailable bool     `gorm:"default:true" json:"isAvailable"`
}

// DefaultSlotTemplate returns the standard working-day slot labels,
// half-hour steps from 09:00 through 17:30 inclusive.
func DefaultSlotTemplate() []string {
	slots := make([]string, 0, 18)
	for h := 9; h < 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}
