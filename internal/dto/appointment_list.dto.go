package dto

import "time"

type AppointmentListDTO struct {
	ID            uint       `json:"id"`
	Date          time.Time  `json:"date"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Type          string     `json:"type"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	QueuePosition *int       `json:"queue_position"`
	ClientName    string     `json:"client_name"`
	ServiceName   string     `json:"service_name"`
	TotalPrice    float64    `json:"total_price"`
	DurationMin   int        `json:"duration_min"`
}
