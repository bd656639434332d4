package models

import "time"

// Uma linha por barbeiro/dia da semana. Horários em "15:04";
// almoço vazio significa expediente corrido.
type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_barber_weekday,priority:1" json:"barber_id"`

	Weekday int `gorm:"uniqueIndex:idx_barber_weekday,priority:2" json:"weekday"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
