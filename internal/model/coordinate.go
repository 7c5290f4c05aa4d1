package model

// Coordinate is a latitude/longitude pair in degrees. Ephemeral, never
// persisted on its own.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
