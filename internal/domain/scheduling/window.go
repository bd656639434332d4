package scheduling

import (
	"time"

	"github.com/BruksfildServices01/barberflow/internal/models"
)

// Window: expediente de um dia — duas janelas (manhã/tarde)
// separadas pelo intervalo de almoço.
type Window struct {
	DayStart time.Time
	DayEnd   time.Time

	HasLunch   bool
	LunchStart time.Time
	LunchEnd   time.Time
}

// WindowFromWorkingHours materializa as horas "15:04" da linha de
// working_hours no dia/fuso pedidos. Retorna ok=false para dia inativo.
func WindowFromWorkingHours(wh *models.WorkingHours, date time.Time) (Window, bool) {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return Window{}, false
	}

	loc := date.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	w := Window{
		DayStart: parseHM(wh.StartTime),
		DayEnd:   parseHM(wh.EndTime),
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		w.HasLunch = true
		w.LunchStart = parseHM(wh.LunchStart)
		w.LunchEnd = parseHM(wh.LunchEnd)
	}

	return w, true
}

// Contains valida se [start, end) cabe no expediente sem tocar o almoço.
func (w Window) Contains(start, end time.Time) bool {
	if start.Before(w.DayStart) || end.After(w.DayEnd) {
		return false
	}
	if w.HasLunch && start.Before(w.LunchEnd) && end.After(w.LunchStart) {
		return false
	}
	return true
}
