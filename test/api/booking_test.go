package api_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

var slotSeq int

// createTestSlot opens a fresh future slot for the shared test doctor
func createTestSlot(t *testing.T) string {
	t.Helper()
	slotSeq++
	start := time.Now().Add(time.Duration(24+slotSeq) * time.Hour).Truncate(time.Minute)

	resp := makeRequest("POST", "/slots", map[string]interface{}{
		"doctor_id":  doctorID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(30 * time.Minute).Format(time.RFC3339),
	}, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to create slot: %s", resp.Message)
	}
	return resp.GetString("id")
}

func bookSlot(slotID string) TestResponse {
	return makeRequest("POST", "/appointments", map[string]interface{}{
		"slot_id":      slotID,
		"visit_reason": "checkup",
	}, patientSession)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	slotID := createTestSlot(t)

	const callers = 8
	results := make([]TestResponse, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = bookSlot(slotID)
		}(i)
	}
	wg.Wait()

	var booked, conflicts int
	var appointmentID string
	for _, resp := range results {
		switch resp.Code {
		case http.StatusCreated:
			booked++
			appointmentID = resp.GetString("id")
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected response %d: %s", resp.Code, resp.Message)
		}
	}
	if booked != 1 {
		t.Fatalf("expected exactly one booking to win, got %d", booked)
	}
	if conflicts != callers-1 {
		t.Fatalf("expected %d conflicts, got %d", callers-1, conflicts)
	}

	resp := makeRequest("GET", "/slots/"+slotID, nil, patientSession)
	if got := resp.GetString("status"); got != "BOOKED" {
		t.Fatalf("expected slot BOOKED after the race, got %s", got)
	}

	// cleanup so later tests see a quiet pool
	makeRequest("DELETE", "/appointments/"+appointmentID, nil, adminSession)
}

func TestCancelReturnsSlotToPool(t *testing.T) {
	slotID := createTestSlot(t)

	resp := bookSlot(slotID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to book: %s", resp.Message)
	}
	appointmentID := resp.GetString("id")

	resp = makeRequest("PATCH", "/appointments/"+appointmentID, map[string]interface{}{
		"status": "CANCELLED",
	}, patientSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to cancel: %s", resp.Message)
	}

	resp = makeRequest("GET", "/slots/"+slotID, nil, patientSession)
	if got := resp.GetString("status"); got != "AVAILABLE" {
		t.Fatalf("expected slot AVAILABLE after cancel, got %s", got)
	}

	// the freed slot books again
	resp = bookSlot(slotID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to rebook freed slot: %s", resp.Message)
	}
	makeRequest("DELETE", "/appointments/"+resp.GetString("id"), nil, adminSession)
}

func TestListSlotsByStatuses(t *testing.T) {
	freeID := createTestSlot(t)
	bookedID := createTestSlot(t)

	resp := bookSlot(bookedID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to book: %s", resp.Message)
	}
	appointmentID := resp.GetString("id")

	query := fmt.Sprintf("/slots?doctor_id=%s&status=AVAILABLE&status=BOOKED", doctorID)
	both := slotIDs(makeRequest("GET", query, nil, doctorSession))
	if !both[freeID] || !both[bookedID] {
		t.Fatalf("expected both slots in AVAILABLE+BOOKED listing, got %v", both)
	}

	query = fmt.Sprintf("/slots?doctor_id=%s&status=BOOKED", doctorID)
	bookedOnly := slotIDs(makeRequest("GET", query, nil, doctorSession))
	if !bookedOnly[bookedID] {
		t.Fatalf("expected booked slot in BOOKED listing, got %v", bookedOnly)
	}
	if bookedOnly[freeID] {
		t.Fatalf("free slot leaked into BOOKED listing")
	}

	makeRequest("DELETE", "/appointments/"+appointmentID, nil, adminSession)
}

func slotIDs(resp TestResponse) map[string]bool {
	ids := make(map[string]bool)
	for _, item := range resp.List {
		if slot, ok := item.(map[string]interface{}); ok {
			if id, ok := slot["id"].(string); ok {
				ids[id] = true
			}
		}
	}
	return ids
}
