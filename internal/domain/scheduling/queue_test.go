package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simula o fluxo de inserção: calcula a posição, desloca quem
// vem depois e acrescenta — como a transação CreateQueued faz.
func insert(waiting []Entry, id uint, p Priority) []Entry {
	pos := InsertPosition(waiting, p)
	for i := range waiting {
		if waiting[i].Position >= pos {
			waiting[i].Position++
		}
	}
	waiting = append(waiting, Entry{
		ID:        id,
		Position:  pos,
		Priority:  p,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	})
	return Waiting(waiting)
}

func TestPriorityInsertionIsStable(t *testing.T) {
	var waiting []Entry

	// [normal, urgent, normal] → [urgent, normal, normal]
	waiting = insert(waiting, 1, PriorityNormal)
	waiting = insert(waiting, 2, PriorityUrgent)
	waiting = insert(waiting, 3, PriorityNormal)

	require.Len(t, waiting, 3)
	assert.Equal(t, uint(2), waiting[0].ID) // urgent na frente
	assert.Equal(t, uint(1), waiting[1].ID) // primeiro normal mantém o rank
	assert.Equal(t, uint(3), waiting[2].ID)

	assert.Equal(t, []int{1, 2, 3}, positions(waiting))
}

func TestEqualPriorityIsFIFO(t *testing.T) {
	var waiting []Entry

	waiting = insert(waiting, 1, PriorityHigh)
	waiting = insert(waiting, 2, PriorityHigh)
	waiting = insert(waiting, 3, PriorityLow)
	waiting = insert(waiting, 4, PriorityHigh)

	assert.Equal(t, uint(1), waiting[0].ID)
	assert.Equal(t, uint(2), waiting[1].ID)
	assert.Equal(t, uint(4), waiting[2].ID) // high passa o low
	assert.Equal(t, uint(3), waiting[3].ID)
}

func TestRenumberIsDenseFromOne(t *testing.T) {
	waiting := Waiting([]Entry{
		{ID: 1, Position: 2, Status: StatusPending},
		{ID: 2, Position: 4, Status: StatusPending},
		{ID: 3, Position: 5, Status: StatusPending},
	})

	renumbered := Renumber(waiting)

	assert.Equal(t, map[uint]int{1: 1, 2: 2, 3: 3}, renumbered)
}

func TestWaitingExcludesOngoingAndTerminal(t *testing.T) {
	entries := []Entry{
		{ID: 1, Position: 0, Status: StatusOngoing},
		{ID: 2, Position: 1, Status: StatusPending},
		{ID: 3, Position: 2, Status: StatusCancelled},
		{ID: 4, Position: 3, Status: StatusPending},
	}

	waiting := Waiting(entries)

	require.Len(t, waiting, 2)
	assert.Equal(t, uint(2), waiting[0].ID)
	assert.Equal(t, uint(4), waiting[1].ID)
}

func TestEstimateWaitSumsAhead(t *testing.T) {
	entries := []Entry{
		{ID: 1, Position: 0, Status: StatusOngoing, DurationMin: 20},
		{ID: 2, Position: 1, Status: StatusPending, DurationMin: 30},
		{ID: 3, Position: 2, Status: StatusPending}, // sem duração → média
	}

	assert.Equal(t, 75, EstimateWait(entries, 3, 25))
	assert.Equal(t, 20, EstimateWait(entries, 1, 25))
	assert.Equal(t, 0, EstimateWait(nil, 1, 25))
}

func TestFormatWait(t *testing.T) {
	assert.Equal(t, "45 min", FormatWait(45))
	assert.Equal(t, "1h 15min", FormatWait(75))
	assert.Equal(t, "2h", FormatWait(120))
	assert.Equal(t, "0 min", FormatWait(0))
}

func positions(entries []Entry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Position)
	}
	return out
}
