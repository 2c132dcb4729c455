//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
)

const testCustomer = "demo-customer"

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestPlaceOrder_NoCustomerHeader(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "tomato-basil-soup", Quantity: 1}},
	}
	resp := doPostAs(t, "/api/orders", req, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_UnknownCustomer(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "tomato-basil-soup", Quantity: 1}},
	}
	resp := doPostAs(t, "/api/orders", req, "no-such-customer")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	resp := doPostAs(t, "/api/orders", orderRequest{Items: []orderItemRequest{}}, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_UnknownFood(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "no-such-food", Quantity: 1}},
	}
	resp := doPostAs(t, "/api/orders", req, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_ZeroQuantity(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "tomato-basil-soup", Quantity: 0}},
	}
	resp := doPostAs(t, "/api/orders", req, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_SingleItem(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "tomato-basil-soup", Quantity: 2}}, // $5.00/L
	}
	resp := doPostAs(t, "/api/orders", req, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	if !uuidPattern.MatchString(order.ID) {
		t.Errorf("order id not a uuid: %q", order.ID)
	}
	if order.TotalPrice != 10.0 {
		t.Errorf("totalPrice: got %v, want 10.0", order.TotalPrice)
	}
	if order.Status != "pending" {
		t.Errorf("status: got %q, want pending", order.Status)
	}
	if len(order.Lines) != 1 || order.Lines[0].Price != 10.0 {
		t.Errorf("lines: got %+v", order.Lines)
	}
	if order.CreditApplied != 0 {
		t.Errorf("creditApplied: got %v, want 0", order.CreditApplied)
	}
	if order.PaymentAmount != nil {
		t.Errorf("paymentAmount: got %v, want absent (no payment token)", *order.PaymentAmount)
	}

	if order.Shipment == nil {
		t.Fatal("shipment not present")
	}
	if order.Shipment.Carrier != "default-carrier" {
		t.Errorf("carrier: got %q", order.Shipment.Carrier)
	}
	wantTracking := testCustomer + "-" + order.ID
	if order.Shipment.TrackingNumber != wantTracking {
		t.Errorf("trackingNumber: got %q, want %q", order.Shipment.TrackingNumber, wantTracking)
	}
}

func TestPlaceOrder_MultipleItems(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{
			{FoodID: "green-smoothie", Quantity: 1}, // $7.00/L
			{FoodID: "mango-lassi", Quantity: 2},    // $5.50/L
		},
	}
	resp := doPostAs(t, "/api/orders", req, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	if order.TotalPrice != 18.0 {
		t.Errorf("totalPrice: got %v, want 18.0", order.TotalPrice)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(order.Lines))
	}
	if order.Lines[0].FoodID != "green-smoothie" || order.Lines[0].Price != 7.0 {
		t.Errorf("line 0: got %+v", order.Lines[0])
	}
	if order.Lines[1].FoodID != "mango-lassi" || order.Lines[1].Price != 11.0 {
		t.Errorf("line 1: got %+v", order.Lines[1])
	}
}

func TestGetOrder(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "bone-broth", Quantity: 1}},
	}
	created := doPostAs(t, "/api/orders", req, testCustomer)
	placed := decodeJSON[orderResponse](t, created)
	created.Body.Close()

	resp := doGetAs(t, "/api/orders/"+placed.ID, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.ID != placed.ID {
		t.Errorf("id: got %q, want %q", got.ID, placed.ID)
	}
	if got.TotalPrice != 9.0 {
		t.Errorf("totalPrice: got %v, want 9.0", got.TotalPrice)
	}
}

func TestGetOrder_ForeignCustomer(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: "bone-broth", Quantity: 1}},
	}
	created := doPostAs(t, "/api/orders", req, testCustomer)
	placed := decodeJSON[orderResponse](t, created)
	created.Body.Close()

	resp := doGetAs(t, "/api/orders/"+placed.ID, "demo-customer-2")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListOrders(t *testing.T) {
	resp := doGetAs(t, "/api/orders", testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) == 0 {
		t.Fatal("expected at least one order")
	}
}

func TestCancelOrder_NotFound(t *testing.T) {
	resp := doPostAs(t, "/api/orders/00000000-0000-0000-0000-000000000000/cancel", nil, testCustomer)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_CaseSensitiveIDs(t *testing.T) {
	req := orderRequest{
		Items: []orderItemRequest{{FoodID: strings.ToUpper("tomato-basil-soup"), Quantity: 1}},
	}
	resp := doPostAs(t, "/api/orders", req, testCustomer)
	defer resp.Body.Close()

	// Catalog ids are case sensitive.
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
