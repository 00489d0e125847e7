package domain

import "time"

// Alert represents a safety/emergency alert raised from a vehicle's
// telematics unit or the driver app.
type Alert struct {
	ID       string
	IoTFolio string
	Lat      float64
	Lng      float64
	RaisedAt time.Time // Stamped in the fleet's reference timezone.
}
