package models

import "time"

// UintList é serializada como JSON (lista de ids de serviços/add-ons)
type UintList []uint

// FriendBooking — agendamento feito em nome de outra pessoa
type FriendBooking struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	BookedBy string `json:"booked_by"`
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barbershop"`

	BarberID uint `gorm:"index:idx_barber_day,priority:1" json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint          `json:"service_id"`
	Service   BarberService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// serviços adicionais e add-ons escolhidos no momento da reserva
	ExtraServiceIDs UintList `gorm:"type:text;serializer:json" json:"services"`
	AddOnIDs        UintList `gorm:"type:text;serializer:json" json:"add_ons"`

	// Date é sempre meia-noite no fuso da barbearia.
	// StartTime/EndTime só existem para type = scheduled.
	Date      time.Time  `gorm:"index:idx_barber_day,priority:2" json:"date"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Type     string `gorm:"size:20;default:'scheduled'" json:"type"`
	Priority string `gorm:"size:10;default:'normal'" json:"priority"`
	Status   string `gorm:"size:20;default:'pending'" json:"status"`

	// 0 = em atendimento; 1..N = fila de espera; null = fora da fila
	QueuePosition *int `json:"queue_position"`

	TotalDurationMin int     `json:"total_duration"`
	TotalPrice       float64 `json:"total_price"`

	Notes  string `gorm:"size:255" json:"notes"`
	WalkIn bool   `json:"walk_in"`

	Friend *FriendBooking `gorm:"type:text;serializer:json" json:"friend,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
