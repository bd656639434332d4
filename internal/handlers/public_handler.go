package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberflow/internal/dto"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
	ucScheduling "github.com/BruksfildServices01/barberflow/internal/usecase/scheduling"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	smartInsert  *ucScheduling.SmartInsert
	availability *ucScheduling.GetAvailability
	queueStatus  *ucScheduling.QueueStatus
}

func NewPublicHandler(
	db *gorm.DB,
	smartInsert *ucScheduling.SmartInsert,
	availability *ucScheduling.GetAvailability,
	queueStatus *ucScheduling.QueueStatus,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		smartInsert:  smartInsert,
		availability: availability,
		queueStatus:  queueStatus,
	}
}

func (h *PublicHandler) shopFromSlug(c *gin.Context) (*models.Barbershop, bool) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return nil, false
	}
	return &shop, true
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListCatalog(c *gin.Context) {
	shop, ok := h.shopFromSlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("barbershop_id = ? AND active = true", shop.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.BarberService
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	var addOns []models.AddOn
	if err := h.db.
		Where("barbershop_id = ? AND active = true", shop.ID).
		Order("id ASC").
		Find(&addOns).Error; err != nil {
		httperr.Internal(c, "failed_to_list_addons", "Erro ao listar add-ons.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"services":   services,
		"add_ons":    addOns,
	})
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shopFromSlug(c)
	if !ok {
		return
	}

	var barbers []models.User
	if err := h.db.
		Select("id", "name", "role").
		Where("barbershop_id = ? AND active = true", shop.ID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"barbers": barbers})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shop, ok := h.shopFromSlug(c)
	if !ok {
		return
	}

	barberID, _ := strconv.Atoi(c.Query("barber_id"))
	serviceID, _ := strconv.Atoi(c.Query("service_id"))

	date, ok := dateFromQuery(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucScheduling.AvailabilityInput{
		BarbershopID: shop.ID,
		BarberID:     uint(barberID),
		ServiceID:    uint(serviceID),
		Date:         date,
	})
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

////////////////////////////////////////////////////////
// QUEUE BOARD
////////////////////////////////////////////////////////

func (h *PublicHandler) Queue(c *gin.Context) {
	shop, ok := h.shopFromSlug(c)
	if !ok {
		return
	}

	barberID, _ := strconv.Atoi(c.Query("barber_id"))

	dateStr := c.Query("date")
	var date time.Time
	if dateStr == "" {
		date = time.Now()
	} else {
		var okDate bool
		date, okDate = dateFromQuery(c)
		if !okDate {
			return
		}
	}

	entries, err := h.queueStatus.Execute(c.Request.Context(), shop.ID, uint(barberID), date)
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue": entries, "total": len(entries)})
}

////////////////////////////////////////////////////////
// BOOKING (smart insert, com antecedência mínima)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	shop, ok := h.shopFromSlug(c)
	if !ok {
		return
	}

	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.ClientName == "" || req.ClientPhone == "" {
		httperr.BadRequest(c, "missing_client", "Nome e telefone são obrigatórios.")
		return
	}

	outcome, err := h.smartInsert.Execute(c.Request.Context(), ucScheduling.SmartInsertInput{
		BarbershopID:      shop.ID,
		Request:           req,
		EnforceMinAdvance: true,
	})
	if err != nil {
		writeBookingError(c, err, outcome)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}
