package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/dto"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
	"github.com/BruksfildServices01/barberflow/internal/timezone"
	"github.com/BruksfildServices01/barberflow/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SmartInsertInput struct {
	BarbershopID uint
	Request      dto.BookingRequest

	// reservas públicas respeitam a antecedência mínima da barbearia
	EnforceMinAdvance bool
}

// ======================================================
// USE CASE
// ======================================================

// SmartInsert decide, para cada pedido de reserva, entre horário fixo
// (scheduled) e posição na fila (queue); saturado, sugere outros barbeiros.
type SmartInsert struct {
	repo     domain.Repository
	cfg      *config.Config
	finder   *FindAlternatives
	audit    *audit.Dispatcher
	notifier domain.Notifier
}

func NewSmartInsert(
	repo domain.Repository,
	cfg *config.Config,
	finder *FindAlternatives,
	auditDispatcher *audit.Dispatcher,
	notifier domain.Notifier,
) *SmartInsert {
	return &SmartInsert{
		repo:     repo,
		cfg:      cfg,
		finder:   finder,
		audit:    auditDispatcher,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SmartInsert) Execute(
	ctx context.Context,
	in SmartInsertInput,
) (*dto.BookingOutcome, error) {

	req := in.Request

	// --------------------------------------------------
	// 1️⃣ Validação — antes de qualquer ida ao store
	// --------------------------------------------------
	if req.BarberID == 0 || req.ServiceID == 0 || req.Date == "" {
		return nil, httperr.ErrValidation("missing_required_fields")
	}

	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityNormal
	}
	if req.IsUrgent {
		priority = domain.PriorityUrgent
	}
	if !priority.Valid() {
		return nil, httperr.ErrValidation("invalid_priority")
	}

	var friend *models.FriendBooking
	if req.ForFriend {
		if req.Friend == nil || req.Friend.Name == "" || !validators.IsPhoneValid(req.Friend.Phone) {
			return nil, httperr.ErrValidation("invalid_friend_booking")
		}
		friend = &models.FriendBooking{
			Name:     req.Friend.Name,
			Phone:    req.Friend.Phone,
			BookedBy: req.Friend.BookedBy,
		}
	}

	ctx, cancel := withStoreTimeout(ctx, uc.cfg)
	defer cancel()

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	var desired *time.Time
	if req.Time != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, loc)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_time")
		}
		desired = &t
	}

	// --------------------------------------------------
	// 2️⃣ Catálogo → duração e preço totais
	// --------------------------------------------------
	catalog, err := uc.repo.GetCatalog(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	quote := catalog.Resolve(req.ServiceID, req.Services, req.AddOns)
	for _, a := range quote.Anomalies {
		log.Printf("catalog anomaly (booking): %s", a)
	}

	duration := quote.DurationMin
	if duration <= 0 {
		duration = uc.cfg.AvgServiceMin
	}

	price := quote.Price
	if priority == domain.PriorityUrgent {
		price += uc.cfg.UrgentSurcharge
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima (reserva pública com horário)
	// --------------------------------------------------
	if in.EnforceMinAdvance && desired != nil {
		minAdvance := shop.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = 120
		}
		now := timezone.NowIn(shop.Timezone)
		if desired.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
			return nil, httperr.ErrValidation("too_soon")
		}
	}

	// --------------------------------------------------
	// 4️⃣ Cliente
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		req.ClientName,
		req.ClientPhone,
		req.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	base := models.Appointment{
		BarbershopID:     in.BarbershopID,
		BarberID:         req.BarberID,
		ClientID:         client.ID,
		ServiceID:        req.ServiceID,
		ExtraServiceIDs:  req.Services,
		AddOnIDs:         req.AddOns,
		Priority:         string(priority),
		Status:           string(domain.InitialStatus()),
		TotalDurationMin: duration,
		TotalPrice:       price,
		Notes:            req.Notes,
		WalkIn:           req.WalkIn,
		Friend:           friend,
	}

	dayStart, _ := dayBounds(shop.Timezone, date)
	base.Date = dayStart

	// --------------------------------------------------
	// 5️⃣ Disponibilidade — snapshot otimista, revalidado na escrita
	// --------------------------------------------------
	slots, open, err := daySlots(
		ctx, uc.repo, uc.cfg,
		req.BarberID, shop.Timezone, date,
		duration, 0,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Decisão: horário pedido
	// --------------------------------------------------
	if open && desired != nil && !req.WalkIn {
		if slot, found := domain.SlotAt(slots, *desired); found && slot.State == domain.SlotAvailable {
			return uc.bookSlot(ctx, base, *desired)
		}
	}

	// --------------------------------------------------
	// 7️⃣ Promoção por prioridade: primeiro slot livre do dia
	// --------------------------------------------------
	promoteMin := domain.Priority(uc.cfg.PromoteMinPriority)
	if !promoteMin.Valid() {
		promoteMin = domain.PriorityHigh
	}

	if open && !req.WalkIn && priority.AtLeast(promoteMin) {
		if first, found := domain.FirstAvailable(slots); found {
			return uc.bookSlot(ctx, base, first.Start)
		}
	}

	// --------------------------------------------------
	// 8️⃣ Fila — ou saturação com alternativas
	// --------------------------------------------------
	return uc.bookQueue(ctx, base, slots, open, priority, date, duration)
}

// --------------------------------------------------
// Horário fixo
// --------------------------------------------------

func (uc *SmartInsert) bookSlot(
	ctx context.Context,
	ap models.Appointment,
	start time.Time,
) (*dto.BookingOutcome, error) {

	end := start.Add(time.Duration(ap.TotalDurationMin) * time.Minute)

	ap.Type = string(domain.TypeScheduled)
	ap.StartTime = &start
	ap.EndTime = &end

	// escrita atômica: o conflito é reverificado dentro da transação
	if err := uc.repo.CreateScheduled(ctx, &ap); err != nil {
		return nil, err
	}

	uc.afterWrite(ctx, &ap, "appointment_scheduled", domain.OutcomeEvent{
		AppointmentID: ap.ID,
		OutcomeType:   domain.OutcomeScheduled,
		AssignedTime:  ap.StartTime,
	})

	return &dto.BookingOutcome{
		OutcomeType:   string(domain.OutcomeScheduled),
		AppointmentID: ap.ID,
		Status:        ap.Status,
		AssignedTime:  ap.StartTime,
	}, nil
}

// --------------------------------------------------
// Fila / saturação
// --------------------------------------------------

func (uc *SmartInsert) bookQueue(
	ctx context.Context,
	ap models.Appointment,
	slots []domain.Slot,
	open bool,
	priority domain.Priority,
	date time.Time,
	duration int,
) (*dto.BookingOutcome, error) {

	dayStart := ap.Date
	dayEnd := dayStart.Add(24 * time.Hour)

	waitingCount, err := uc.repo.CountWaiting(ctx, ap.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	hasSlot := false
	if open {
		_, hasSlot = domain.FirstAvailable(slots)
	}

	// saturação: sem slot livre E fila no limite → sugerir alternativas
	capacity := uc.cfg.QueueCapacity
	if capacity > 0 && int(waitingCount) >= capacity && !hasSlot {
		alternatives, err := uc.finder.Execute(
			ctx, ap.BarbershopID, ap.BarberID, date, duration,
		)
		if err != nil {
			return nil, err
		}

		out := &dto.BookingOutcome{
			OutcomeType:  string(domain.OutcomeAlternativeSuggested),
			Alternatives: make([]dto.AlternativeDTO, 0, len(alternatives)),
		}
		for _, alt := range alternatives {
			out.Alternatives = append(out.Alternatives, dto.AlternativeDTO{
				BarberID:           alt.BarberID,
				BarberName:         alt.BarberName,
				NextAvailableTime:  alt.NextAvailableTime,
				AvailableSlotCount: alt.AvailableSlotCount,
			})
		}

		return out, httperr.ErrSaturation("barber_saturated")
	}

	// fila no limite mas o dia tem slot → usa o primeiro horário livre
	if capacity > 0 && int(waitingCount) >= capacity && hasSlot {
		first, _ := domain.FirstAvailable(slots)
		return uc.bookSlot(ctx, ap, first.Start)
	}

	queued, err := uc.repo.ListQueue(ctx, ap.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	entries := domain.EntriesFrom(queued)
	waiting := domain.Waiting(entries)

	pos := domain.InsertPosition(waiting, priority)

	ap.Type = string(domain.TypeQueue)
	ap.StartTime = nil
	ap.EndTime = nil

	if err := uc.repo.CreateQueued(ctx, &ap, pos); err != nil {
		return nil, err
	}

	waitMin := domain.EstimateWait(entries, pos, uc.cfg.AvgServiceMin)
	wait := domain.FormatWait(waitMin)

	uc.afterWrite(ctx, &ap, "appointment_queued", domain.OutcomeEvent{
		AppointmentID: ap.ID,
		OutcomeType:   domain.OutcomeQueued,
		QueuePosition: ap.QueuePosition,
		EstimatedWait: wait,
	})

	return &dto.BookingOutcome{
		OutcomeType:   string(domain.OutcomeQueued),
		AppointmentID: ap.ID,
		Status:        ap.Status,
		QueuePosition: ap.QueuePosition,
		EstimatedWait: wait,
	}, nil
}

// --------------------------------------------------
// Pós-escrita: auditoria + invalidação + desfecho
// --------------------------------------------------

func (uc *SmartInsert) afterWrite(
	ctx context.Context,
	ap *models.Appointment,
	action string,
	ev domain.OutcomeEvent,
) {
	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       &ap.BarberID,
		Action:       action,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.notifier.AppointmentChanged(ctx, ap.BarberID, ap.Date)
	uc.notifier.Outcome(ctx, ev)
}
