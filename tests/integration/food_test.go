//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListFoods(t *testing.T) {
	resp := doGet(t, "/api/foods")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	foods := decodeJSON[[]foodResponse](t, resp)
	if len(foods) != 5 {
		t.Fatalf("expected 5 foods, got %d", len(foods))
	}

	byID := make(map[string]foodResponse, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}
	soup, ok := byID["tomato-basil-soup"]
	if !ok {
		t.Fatal("tomato-basil-soup not in catalog")
	}
	if soup.Title != "Tomato Basil Soup" {
		t.Errorf("title: got %q", soup.Title)
	}
	if soup.PricePerLiter != 5.0 {
		t.Errorf("pricePerLiter: got %v, want 5.0", soup.PricePerLiter)
	}
}

func TestGetFood(t *testing.T) {
	resp := doGet(t, "/api/foods/bone-broth")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	food := decodeJSON[foodResponse](t, resp)
	if food.Title != "Beef Bone Broth" {
		t.Errorf("title: got %q", food.Title)
	}
	if food.PricePerLiter != 9.0 {
		t.Errorf("pricePerLiter: got %v, want 9.0", food.PricePerLiter)
	}
}

func TestGetFood_NotFound(t *testing.T) {
	resp := doGet(t, "/api/foods/no-such-food")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d", body.Code)
	}
}
