package scheduling

import "time"

// ===============================
// Availability Calculator
// ===============================

type AvailabilityInput struct {
	Window      Window
	StepMin     int
	DurationMin int
	Existing    []Occupied

	// ExcludeID: ao editar um agendamento, o próprio horário
	// dele nunca gera conflito consigo mesmo.
	ExcludeID uint
}

// BuildDaySlots gera a grade de horários candidatos do dia e marca cada
// um como available / scheduled / full / lunch. Entradas de fila (sem
// horário real) entram no fim da sequência como informativas.
//
// O resultado é um snapshot: recalculado a cada chamada, nunca cacheado,
// porque a ocupação muda entre chamadas.
func BuildDaySlots(in AvailabilityInput) []Slot {
	w := in.Window
	step := time.Duration(in.StepMin) * time.Minute
	dur := time.Duration(in.DurationMin) * time.Minute

	var slots []Slot

	for cur := w.DayStart; cur.Before(w.DayEnd); cur = cur.Add(step) {
		slot := Slot{Start: cur, End: cur.Add(dur)}

		switch {
		case w.HasLunch && !cur.Before(w.LunchStart) && cur.Before(w.LunchEnd):
			// almoço nunca é oferecido como horário de início
			slot.State = SlotLunch
			slot.End = cur.Add(step)

		default:
			if occ, taken := in.cellTakenBy(cur); taken {
				slot.State = SlotScheduled
				slot.AppointmentID = occ.ID
				slot.End = cur.Add(step)
				break
			}

			if !in.fits(cur, dur) {
				slot.State = SlotFull
				break
			}

			slot.State = SlotAvailable
		}

		slots = append(slots, slot)
	}

	// entradas de fila: sem horário, mostradas com a posição
	for _, occ := range in.Existing {
		if occ.Type != TypeQueue || occ.ID == in.ExcludeID {
			continue
		}
		if !occ.Status.IsOccupying() {
			continue
		}
		s := Slot{State: SlotQueue, AppointmentID: occ.ID}
		if occ.QueuePos != nil {
			s.QueuePosition = *occ.QueuePos
		}
		slots = append(slots, s)
	}

	return slots
}

// cellTakenBy: a célula [t, t+step) está dentro de um agendamento fixo?
func (in AvailabilityInput) cellTakenBy(t time.Time) (Occupied, bool) {
	for _, occ := range in.Existing {
		if occ.ID == in.ExcludeID || occ.Start == nil || !occ.Status.IsOccupying() {
			continue
		}
		if Overlaps(t, in.StepMin, *occ.Start, occ.DurationMin) {
			return occ, true
		}
	}
	return Occupied{}, false
}

// fits: [t, t+dur) cabe no expediente sem cruzar almoço nem outro agendamento?
func (in AvailabilityInput) fits(t time.Time, dur time.Duration) bool {
	end := t.Add(dur)

	if end.After(in.Window.DayEnd) {
		return false
	}
	if in.Window.HasLunch && t.Before(in.Window.LunchEnd) && end.After(in.Window.LunchStart) {
		return false
	}

	for _, occ := range in.Existing {
		if occ.ID == in.ExcludeID || occ.Start == nil || !occ.Status.IsOccupying() {
			continue
		}
		if Overlaps(t, in.DurationMin, *occ.Start, occ.DurationMin) {
			return false
		}
	}

	return true
}

// FirstAvailable devolve o primeiro slot bookable da sequência.
func FirstAvailable(slots []Slot) (Slot, bool) {
	for _, s := range slots {
		if s.State == SlotAvailable {
			return s, true
		}
	}
	return Slot{}, false
}

func CountAvailable(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.State == SlotAvailable {
			n++
		}
	}
	return n
}

// SlotAt procura o descriptor cujo início coincide com t.
func SlotAt(slots []Slot, t time.Time) (Slot, bool) {
	for _, s := range slots {
		if s.State != SlotQueue && s.Start.Equal(t) {
			return s, true
		}
	}
	return Slot{}, false
}
