package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShipmentShipped(t *testing.T) {
	subject, body := ShipmentShipped("c1-o1")

	assert.Equal(t, "Shipment Shipped", subject)
	assert.Contains(t, body, "c1-o1")
	assert.Contains(t, body, "has been shipped")
}

func TestShipmentDelivered(t *testing.T) {
	subject, body := ShipmentDelivered("c1-o1")

	assert.Equal(t, "Shipment Delivered", subject)
	assert.Contains(t, body, "c1-o1")
	assert.Contains(t, body, "has been delivered")
}
