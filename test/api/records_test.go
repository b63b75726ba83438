package api_test

import (
	"testing"
	"time"
)

// openTestRecord books a slot, has the doctor approve the visit, and opens
// a medical record with the given billing amount. It returns the record ID.
func openTestRecord(t *testing.T, billingAmount float64) string {
	t.Helper()

	slotID := createTestSlot(t)
	resp := bookSlot(slotID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to book: %s", resp.Message)
	}
	appointmentID := resp.GetString("id")

	resp = makeRequest("PATCH", "/appointments/"+appointmentID, map[string]interface{}{
		"status": "APPROVED",
	}, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to approve: %s", resp.Message)
	}

	body := map[string]interface{}{
		"appointment_id":      appointmentID,
		"patient_description": "persistent headaches for two weeks",
		"doctor_notes":        "order bloodwork",
	}
	if billingAmount > 0 {
		body["billing_amount"] = billingAmount
	}
	resp = makeRequest("POST", "/medical-records", body, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to open medical record: %s", resp.Message)
	}
	return resp.GetString("id")
}

func listRecordPayments(recordID string) TestResponse {
	return makeRequest("GET", "/payments?medical_record_id="+recordID, nil, adminSession)
}

func TestBillingCreatesPendingPayment(t *testing.T) {
	recordID := openTestRecord(t, 120.50)

	resp := listRecordPayments(recordID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to list payments: %s", resp.Message)
	}
	if len(resp.List) != 1 {
		t.Fatalf("expected one payment for the billed record, got %d", len(resp.List))
	}
	payment := resp.List[0].(map[string]interface{})
	if payment["status"] != "PENDING" {
		t.Fatalf("expected PENDING payment, got %v", payment["status"])
	}
	if payment["amount"] != 120.50 {
		t.Fatalf("expected amount 120.50, got %v", payment["amount"])
	}
}

func TestDeleteRecordRemovesPayment(t *testing.T) {
	recordID := openTestRecord(t, 80)

	resp := makeRequest("DELETE", "/medical-records/"+recordID, nil, adminSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to delete record: %s", resp.Message)
	}

	resp = listRecordPayments(recordID)
	if !resp.IsSuccess() {
		t.Fatalf("failed to list payments: %s", resp.Message)
	}
	if len(resp.List) != 0 {
		t.Fatalf("expected no payments after record delete, got %d", len(resp.List))
	}
}

func TestRequisitionLifecycle(t *testing.T) {
	recordID := openTestRecord(t, 0)

	resp := makeRequest("POST", "/requisitions", map[string]interface{}{
		"medical_record_id": recordID,
		"test_name":         "CBC",
	}, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to create requisition: %s", resp.Message)
	}
	requisitionID := resp.GetString("id")
	if got := resp.GetString("status"); got != "PENDING" {
		t.Fatalf("expected new requisition PENDING, got %s", got)
	}

	resp = makeRequest("PATCH", "/requisitions/"+requisitionID, map[string]interface{}{
		"status": "PENDING_RESULT",
	}, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to dispatch requisition: %s", resp.Message)
	}
	if got := resp.GetString("status"); got != "PENDING_RESULT" {
		t.Fatalf("expected PENDING_RESULT after dispatch, got %s", got)
	}

	resp = makeRequest("POST", "/requisitions/"+requisitionID+"/result", map[string]interface{}{
		"value":       "5.4",
		"unit":        "10^9/L",
		"observed_at": time.Now().UTC().Format(time.RFC3339),
		"interpreted": "within range",
	}, doctorSession)
	if !resp.IsSuccess() {
		t.Fatalf("failed to attach result: %s", resp.Message)
	}
	if got := resp.GetString("status"); got != "COMPLETED" {
		t.Fatalf("expected COMPLETED after result, got %s", got)
	}
}
