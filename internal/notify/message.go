package notify

import "fmt"

// ShipmentShipped builds the "shipment in transit" email for a tracking number.
func ShipmentShipped(trackingNumber string) (subject, body string) {
	return "Shipment Shipped",
		fmt.Sprintf("Your shipment with tracking number %s has been shipped. You can track your shipment using this tracking number.", trackingNumber)
}

// ShipmentDelivered builds the "shipment delivered" email for a tracking number.
func ShipmentDelivered(trackingNumber string) (subject, body string) {
	return "Shipment Delivered",
		fmt.Sprintf("Your shipment with tracking number %s has been delivered. Thank you for shopping with us!", trackingNumber)
}
