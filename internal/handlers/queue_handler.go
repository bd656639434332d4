package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberflow/internal/httpresp"
	"github.com/BruksfildServices01/barberflow/internal/middleware"
	ucScheduling "github.com/BruksfildServices01/barberflow/internal/usecase/scheduling"
)

// Painel da fila do barbeiro: posições densas + estimativa de espera.
type QueueHandler struct {
	queueStatus *ucScheduling.QueueStatus
}

func NewQueueHandler(queueStatus *ucScheduling.QueueStatus) *QueueHandler {
	return &QueueHandler{queueStatus: queueStatus}
}

func (h *QueueHandler) Get(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, _ := strconv.Atoi(c.DefaultQuery("barber_id", "0"))
	if barberID == 0 {
		barberID = int(c.MustGet(middleware.ContextUserID).(uint))
	}

	date, ok := dateFromQuery(c)
	if !ok {
		return
	}

	entries, err := h.queueStatus.Execute(
		c.Request.Context(),
		barbershopID,
		uint(barberID),
		date,
	)
	if err != nil {
		writeBookingError(c, err, nil)
		return
	}

	httpresp.List(c, entries)
}
