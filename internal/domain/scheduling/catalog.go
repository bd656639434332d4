package scheduling

import (
	"fmt"

	"github.com/BruksfildServices01/barberflow/internal/models"
)

// ===============================
// Catalog Lookup
// ===============================

// Catalog é um snapshot em memória dos serviços/add-ons ativos.
// Puro: sem efeitos colaterais, anomalias voltam para o caller logar.
type Catalog struct {
	Services map[uint]models.BarberService
	AddOns   map[uint]models.AddOn
}

func NewCatalog(services []models.BarberService, addOns []models.AddOn) *Catalog {
	c := &Catalog{
		Services: make(map[uint]models.BarberService, len(services)),
		AddOns:   make(map[uint]models.AddOn, len(addOns)),
	}
	for _, s := range services {
		c.Services[s.ID] = s
	}
	for _, a := range addOns {
		c.AddOns[a.ID] = a
	}
	return c
}

type Quote struct {
	DurationMin int
	Price       float64

	// ids desconhecidos/inativos — contribuição zero, não falham a reserva
	Anomalies []string
}

// Resolve soma duração e preço do serviço principal + adicionais + add-ons.
// Item fora do catálogo ativo conta zero e vira anomalia.
func (c *Catalog) Resolve(serviceID uint, extraServiceIDs []uint, addOnIDs []uint) Quote {
	var q Quote

	addService := func(id uint) {
		s, ok := c.Services[id]
		if !ok || !s.Active {
			q.Anomalies = append(q.Anomalies, fmt.Sprintf("service:%d", id))
			return
		}
		q.DurationMin += s.DurationMin
		q.Price += s.Price
	}

	addService(serviceID)
	for _, id := range extraServiceIDs {
		addService(id)
	}

	for _, id := range addOnIDs {
		a, ok := c.AddOns[id]
		if !ok || !a.Active {
			q.Anomalies = append(q.Anomalies, fmt.Sprintf("addon:%d", id))
			continue
		}
		q.DurationMin += a.DurationMin
		q.Price += a.Price
	}

	return q
}
