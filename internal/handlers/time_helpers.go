package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberflow/internal/httperr"
)

// --------------------------------------------------
// Datas em query string
// --------------------------------------------------

// dateFromQuery lê ?date=YYYY-MM-DD. Só os componentes ano/mês/dia
// importam: o fuso da barbearia é aplicado dentro dos use cases.
func dateFromQuery(c *gin.Context) (time.Time, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return time.Time{}, false
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return time.Time{}, false
	}

	return date, true
}
