package locations

// Location es un punto geográfico referenciable por animales (chipping
// location) y por sus visitas.
type Location struct {
	ID        string
	Longitude float64
	Latitude  float64
}
