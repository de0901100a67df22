package callstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	store := New()

	record := store.Register("CA1", "V1", "+593991234567", "Maria Perez", "Juan")
	assert.Equal(t, "initiated", record.CallStatus)
	assert.Empty(t, record.Decision)

	byCall, ok := store.GetByCallSid("CA1")
	require.True(t, ok)
	assert.Equal(t, "V1", byCall.VisitID)

	byVisit, ok := store.GetByVisitID("V1")
	require.True(t, ok)
	assert.Equal(t, "CA1", byVisit.CallSid)
}

func TestRegisterOverwritesVisitMapping(t *testing.T) {
	store := New()
	store.Register("CA1", "V1", "+5930001", "", "")
	store.Register("CA2", "V1", "+5930002", "", "")

	record, ok := store.GetByVisitID("V1")
	require.True(t, ok)
	assert.Equal(t, "CA2", record.CallSid)

	// The first call is still reachable by its own sid.
	_, ok = store.GetByCallSid("CA1")
	assert.True(t, ok)
}

func TestUpdateStatusKeepsVisitMapping(t *testing.T) {
	store := New()
	store.Register("C1", "V1", "+5930001", "Maria", "Juan")

	// Status callback without a visit id must not unlink V1 -> C1.
	store.UpdateStatus("C1", StatusUpdate{CallStatus: "in-progress", Duration: "12"})

	record, ok := store.GetByVisitID("V1")
	require.True(t, ok)
	assert.Equal(t, "in-progress", record.CallStatus)
	assert.Equal(t, "12", record.Duration)
	assert.Equal(t, "Maria", record.ResidentName)
}

func TestUpdateStatusSynthesizesUnknownCall(t *testing.T) {
	store := New()

	// Callbacks can race ahead of Register.
	record := store.UpdateStatus("CA9", StatusUpdate{
		VisitID:    "V9",
		CallStatus: "ringing",
		From:       "+15550001",
	})
	assert.Equal(t, "ringing", record.CallStatus)
	assert.Equal(t, "V9", record.VisitID)

	byVisit, ok := store.GetByVisitID("V9")
	require.True(t, ok)
	assert.Equal(t, "CA9", byVisit.CallSid)
}

func TestUpdateStatusMergesOnlyProvidedFields(t *testing.T) {
	store := New()
	store.Register("CA1", "V1", "+5930001", "", "")
	store.UpdateStatus("CA1", StatusUpdate{CallStatus: "in-progress", AnsweredBy: "human"})
	store.UpdateStatus("CA1", StatusUpdate{CallStatus: "completed", Duration: "33"})

	record, _ := store.GetByCallSid("CA1")
	assert.Equal(t, "completed", record.CallStatus)
	assert.Equal(t, "human", record.AnsweredBy)
	assert.Equal(t, "33", record.Duration)
}

func TestUpdateDecision(t *testing.T) {
	store := New()
	store.Register("CA1", "V1", "+5930001", "", "")

	record, errInfo := store.UpdateDecision("CA1", "V1", "authorized", "1")
	require.Nil(t, errInfo)
	assert.Equal(t, "authorized", record.Decision)
	assert.Equal(t, "1", record.Digit)
}

func TestUpdateDecisionFallsBackToVisitIndex(t *testing.T) {
	store := New()
	store.Register("CA1", "V1", "+5930001", "", "")

	record, errInfo := store.UpdateDecision("", "V1", "rejected", "2")
	require.Nil(t, errInfo)
	assert.Equal(t, "CA1", record.CallSid)
	assert.Equal(t, "rejected", record.Decision)
}

func TestUpdateDecisionNotFound(t *testing.T) {
	store := New()

	_, errInfo := store.UpdateDecision("CAx", "Vx", "authorized", "1")
	require.NotNil(t, errInfo)
	assert.Equal(t, "CALL_NOT_FOUND", errInfo.Code)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := New()
	record := store.Register("CA1", "V1", "+5930001", "", "")
	record.CallStatus = "mutated"

	stored, _ := store.GetByCallSid("CA1")
	assert.Equal(t, "initiated", stored.CallStatus)
}

func TestConcurrentStatusAndDecisionUpdates(t *testing.T) {
	store := New()
	store.Register("CA1", "V1", "+5930001", "", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.UpdateStatus("CA1", StatusUpdate{
				CallStatus: "in-progress",
				Duration:   fmt.Sprintf("%d", i),
			})
		}(i)
		go func(i int) {
			defer wg.Done()
			digit := "1"
			if i%2 == 0 {
				digit = "2"
			}
			decision := "authorized"
			if i%2 == 0 {
				decision = "rejected"
			}
			_, _ = store.UpdateDecision("CA1", "V1", decision, digit)
		}(i)
	}
	wg.Wait()

	// Independent fields never tear: both families of writes landed and a
	// final sequential write of each wins.
	record, ok := store.GetByCallSid("CA1")
	require.True(t, ok)
	assert.Equal(t, "in-progress", record.CallStatus)
	assert.Contains(t, []string{"authorized", "rejected"}, record.Decision)

	store.UpdateStatus("CA1", StatusUpdate{CallStatus: "completed", Duration: "60"})
	_, errInfo := store.UpdateDecision("CA1", "V1", "authorized", "1")
	require.Nil(t, errInfo)

	record, _ = store.GetByCallSid("CA1")
	assert.Equal(t, "completed", record.CallStatus)
	assert.Equal(t, "60", record.Duration)
	assert.Equal(t, "authorized", record.Decision)
	assert.Equal(t, "1", record.Digit)

	// Visit mapping survived the whole interleaving.
	byVisit, ok := store.GetByVisitID("V1")
	require.True(t, ok)
	assert.Equal(t, "CA1", byVisit.CallSid)
}
