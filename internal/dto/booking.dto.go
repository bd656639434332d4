package dto

import "time"

// BookingRequest é o contrato fixo de campos da reserva. Callers externos
// preenchem exatamente este conjunto; campos desconhecidos são ignorados
// e a falta de barber_id / service_id / date falha a validação antes de
// qualquer acesso ao store.
type BookingRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	BarberID  uint   `json:"barber_id"`
	ServiceID uint   `json:"service_id"`
	Services  []uint `json:"services"`
	AddOns    []uint `json:"add_ons"`

	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:mm, opcional

	Type     string `json:"type"`
	Priority string `json:"priority"`
	Notes    string `json:"notes"`

	IsUrgent  bool `json:"is_urgent"`
	WalkIn    bool `json:"walk_in"`
	ForFriend bool `json:"for_friend"`

	Friend *FriendDTO `json:"friend,omitempty"`
}

type FriendDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	BookedBy string `json:"booked_by"`
}

type BookingOutcome struct {
	OutcomeType   string     `json:"outcome_type"` // scheduled | queued | alternativeSuggested
	AppointmentID uint       `json:"appointment_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	AssignedTime  *time.Time `json:"assigned_time,omitempty"`
	QueuePosition *int       `json:"queue_position,omitempty"`
	EstimatedWait string     `json:"estimated_wait,omitempty"`

	Alternatives []AlternativeDTO `json:"alternatives,omitempty"`
}

type AlternativeDTO struct {
	BarberID           uint      `json:"barber_id"`
	BarberName         string    `json:"barber_name"`
	NextAvailableTime  time.Time `json:"next_available_time"`
	AvailableSlotCount int       `json:"available_slot_count"`
}
