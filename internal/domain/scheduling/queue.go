package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// ===============================
// Queue Manager
// ===============================

// Entry é a projeção de um agendamento tipo fila.
type Entry struct {
	ID          uint
	Position    int
	Priority    Priority
	DurationMin int
	Status      Status
	CreatedAt   time.Time
}

// Waiting filtra e ordena a fila de espera (posições 1..N).
// A entrada ongoing (posição 0) fica de fora da sequência.
func Waiting(entries []Entry) []Entry {
	var waiting []Entry
	for _, e := range entries {
		if e.Status.IsWaiting() && e.Position > 0 {
			waiting = append(waiting, e)
		}
	}
	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].Position < waiting[j].Position
	})
	return waiting
}

// InsertPosition devolve a posição 1..N+1 de uma nova entrada:
// depois de todas com prioridade igual ou maior, antes das menores.
// Empate de prioridade é FIFO — fila de prioridade estável.
func InsertPosition(waiting []Entry, p Priority) int {
	pos := 1
	for _, e := range waiting {
		if e.Priority.Rank() >= p.Rank() {
			pos = e.Position + 1
			continue
		}
		break
	}
	return pos
}

// Renumber devolve as posições densas 1..N após uma saída da fila.
// A ordem relativa é preservada; o resultado mapeia id → nova posição.
func Renumber(waiting []Entry) map[uint]int {
	out := make(map[uint]int, len(waiting))
	next := 1
	for _, e := range waiting {
		out[e.ID] = next
		next++
	}
	return out
}

// EstimateWait soma a duração de tudo que está estritamente à frente
// da posição pos. Duração não resolvida cai no fallback avgMin.
func EstimateWait(entries []Entry, pos int, avgMin int) int {
	total := 0
	for _, e := range entries {
		if !e.Status.IsOccupying() {
			continue
		}
		if e.Position >= pos {
			continue
		}
		d := e.DurationMin
		if d <= 0 {
			d = avgMin
		}
		total += d
	}
	return total
}

// FormatWait: "45 min" até 60, "1h 15min" acima.
func FormatWait(min int) string {
	if min < 60 {
		return fmt.Sprintf("%d min", min)
	}
	if min%60 == 0 {
		return fmt.Sprintf("%dh", min/60)
	}
	return fmt.Sprintf("%dh %dmin", min/60, min%60)
}
