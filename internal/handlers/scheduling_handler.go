package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberflow/internal/dto"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/httpresp"
	"github.com/BruksfildServices01/barberflow/internal/middleware"
	ucScheduling "github.com/BruksfildServices01/barberflow/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type SchedulingHandler struct {
	smartInsert  *ucScheduling.SmartInsert
	availability *ucScheduling.GetAvailability
	alternatives *ucScheduling.FindAlternatives
	reschedule   *ucScheduling.Reschedule
	confirm      *ucScheduling.ConfirmAppointment
	start        *ucScheduling.StartService
	complete     *ucScheduling.CompleteAppointment
	cancel       *ucScheduling.CancelAppointment
	listByDate   *ucScheduling.ListAppointmentsByDate
}

func NewSchedulingHandler(
	smartInsert *ucScheduling.SmartInsert,
	availability *ucScheduling.GetAvailability,
	alternatives *ucScheduling.FindAlternatives,
	reschedule *ucScheduling.Reschedule,
	confirm *ucScheduling.ConfirmAppointment,
	start *ucScheduling.StartService,
	complete *ucScheduling.CompleteAppointment,
	cancel *ucScheduling.CancelAppointment,
	listByDate *ucScheduling.ListAppointmentsByDate,
) *SchedulingHandler {
	return &SchedulingHandler{
		smartInsert:  smartInsert,
		availability: availability,
		alternatives: alternatives,
		reschedule:   reschedule,
		confirm:      confirm,
		start:        start,
		complete:     complete,
		cancel:       cancel,
		listByDate:   listByDate,
	}
}

// ======================================================
// CREATE (smart insert)
// ======================================================

func (h *SchedulingHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	outcome, err := h.smartInsert.Execute(c.Request.Context(), ucScheduling.SmartInsertInput{
		BarbershopID: barbershopID,
		Request:      req,
	})
	if err != nil {
		writeBookingError(c, err, outcome)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

// writeBookingError devolve o reason code da taxonomia; saturação
// carrega as alternativas ranqueadas para o caller ter próximo passo.
func writeBookingError(c *gin.Context, err error, outcome *dto.BookingOutcome) {
	if httperr.IsKind(err, httperr.KindSaturation) && outcome != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error_code":   "barber_saturated",
			"message":      "Barbeiro lotado. Veja as alternativas.",
			"alternatives": outcome.Alternatives,
		})
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.WriteBusiness(c, be, "Não foi possível concluir a reserva.")
		return
	}

	httperr.Internal(c, "booking_failed", "Erro ao criar agendamento.")
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *SchedulingHandler) Availability(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, _ := strconv.Atoi(c.DefaultQuery("barber_id", "0"))
	if barberID == 0 {
		if id, ok := c.Get(middleware.ContextUserID); ok {
			barberID = int(id.(uint))
		}
	}

	serviceID, _ := strconv.Atoi(c.Query("service_id"))
	excludeID, _ := strconv.Atoi(c.Query("exclude_appointment_id"))

	date, ok := dateFromQuery(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucScheduling.AvailabilityInput{
		BarbershopID:         barbershopID,
		BarberID:             uint(barberID),
		ServiceID:            uint(serviceID),
		Date:                 date,
		ExcludeAppointmentID: uint(excludeID),
	})
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ======================================================
// ALTERNATIVES
// ======================================================

func (h *SchedulingHandler) Alternatives(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, _ := strconv.Atoi(c.Query("barber_id"))
	duration, _ := strconv.Atoi(c.DefaultQuery("duration_min", "30"))

	date, ok := dateFromQuery(c)
	if !ok {
		return
	}

	alternatives, err := h.alternatives.Execute(
		c.Request.Context(),
		barbershopID,
		uint(barberID),
		date,
		duration,
	)
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alternatives": alternatives})
}

// ======================================================
// STATE TRANSITIONS
// ======================================================

func (h *SchedulingHandler) Confirm(c *gin.Context) {
	h.transition(c, func(barbershopID, id uint) (any, error) {
		return h.confirm.Execute(c.Request.Context(), barbershopID, id)
	})
}

func (h *SchedulingHandler) Start(c *gin.Context) {
	h.transition(c, func(barbershopID, id uint) (any, error) {
		return h.start.Execute(c.Request.Context(), barbershopID, id)
	})
}

func (h *SchedulingHandler) Complete(c *gin.Context) {
	h.transition(c, func(barbershopID, id uint) (any, error) {
		return h.complete.Execute(c.Request.Context(), barbershopID, id)
	})
}

func (h *SchedulingHandler) Cancel(c *gin.Context) {
	h.transition(c, func(barbershopID, id uint) (any, error) {
		return h.cancel.Execute(c.Request.Context(), barbershopID, id)
	})
}

func (h *SchedulingHandler) transition(
	c *gin.Context,
	fn func(barbershopID, id uint) (any, error),
) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	ap, err := fn(barbershopID, uint(id))
	if err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return
		}
		if httperr.IsBusiness(err, "invalid_state") {
			httperr.BadRequest(c, "invalid_state", "Transição de status inválida.")
			return
		}
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *SchedulingHandler) Reschedule(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reschedule.Execute(
		c.Request.Context(),
		barbershopID,
		uint(id),
		req.Date,
		req.Time,
	)
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *SchedulingHandler) ListByDate(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	date, ok := dateFromQuery(c)
	if !ok {
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), barbershopID, barberID, date)
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	httpresp.List(c, list)
}
