//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// creditCustomer keeps ledger mutations away from the customer used by the
// order tests.
const creditCustomer = "demo-customer-2"

func TestCredit_NoLedger(t *testing.T) {
	resp := doGetAs(t, "/api/credit", creditCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// TestCancelAndSpendCredit exercises the full refund cycle: place an order,
// cancel it, verify the issued credit, then place a second order that
// consumes the credit.
func TestCancelAndSpendCredit(t *testing.T) {
	// Place a 2L tomato basil soup order: totalPrice 10.00.
	placeReq := orderRequest{
		Items: []orderItemRequest{{FoodID: "tomato-basil-soup", Quantity: 2}},
	}
	created := doPostAs(t, "/api/orders", placeReq, creditCustomer)
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", created.StatusCode)
	}
	placed := decodeJSON[orderResponse](t, created)
	created.Body.Close()

	// Cancel it: the order total comes back as store credit.
	cancelResp := doPostAs(t, "/api/orders/"+placed.ID+"/cancel", nil, creditCustomer)
	if cancelResp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", cancelResp.StatusCode)
	}
	issued := decodeJSON[creditResponse](t, cancelResp)
	cancelResp.Body.Close()

	if issued.Amount != 10.0 {
		t.Errorf("issued credit: got %v, want 10.0", issued.Amount)
	}
	if issued.ExpiresAt == "" {
		t.Error("issued credit has no expiry")
	}

	// Cancelling again must fail: the order is no longer pending.
	again := doPostAs(t, "/api/orders/"+placed.ID+"/cancel", nil, creditCustomer)
	if again.StatusCode != http.StatusConflict {
		t.Errorf("second cancel: expected 409, got %d", again.StatusCode)
	}
	again.Body.Close()

	// The cancelled order reads back with its new status.
	read := doGetAs(t, "/api/orders/"+placed.ID, creditCustomer)
	cancelled := decodeJSON[orderResponse](t, read)
	read.Body.Close()
	if cancelled.Status != "cancelled" {
		t.Errorf("status after cancel: got %q, want cancelled", cancelled.Status)
	}

	// Balance endpoint agrees.
	balResp := doGetAs(t, "/api/credit", creditCustomer)
	if balResp.StatusCode != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", balResp.StatusCode)
	}
	balance := decodeJSON[creditResponse](t, balResp)
	balResp.Body.Close()
	if balance.Amount != 10.0 {
		t.Errorf("balance: got %v, want 10.0", balance.Amount)
	}

	expResp := doGetAs(t, "/api/credit/expiry", creditCustomer)
	expired := decodeJSON[creditExpiryResponse](t, expResp)
	expResp.Body.Close()
	if expired.Expired {
		t.Error("freshly issued credit reported expired")
	}

	// A second order consumes credit: 1L mango lassi is 5.50, plus the 2.00
	// delivery fee, so 7.50 of the 10.00 credit applies.
	spendReq := orderRequest{
		Items: []orderItemRequest{{FoodID: "mango-lassi", Quantity: 1}},
	}
	spendResp := doPostAs(t, "/api/orders", spendReq, creditCustomer)
	if spendResp.StatusCode != http.StatusCreated {
		t.Fatalf("spend order: expected 201, got %d", spendResp.StatusCode)
	}
	spend := decodeJSON[orderResponse](t, spendResp)
	spendResp.Body.Close()

	if spend.CreditApplied != 7.5 {
		t.Errorf("creditApplied: got %v, want 7.5", spend.CreditApplied)
	}
	if spend.TotalPrice != 5.5 {
		t.Errorf("totalPrice: got %v, want 5.5", spend.TotalPrice)
	}

	// 2.50 remains on the ledger.
	balResp = doGetAs(t, "/api/credit", creditCustomer)
	balance = decodeJSON[creditResponse](t, balResp)
	balResp.Body.Close()
	if balance.Amount != 2.5 {
		t.Errorf("remaining balance: got %v, want 2.5", balance.Amount)
	}
}
