package areas

// Point es un vértice lon/lat del anillo de un área.
type Point struct {
	Longitude float64
	Latitude  float64
}

// Area es un polígono nombrado. Solo storage: no hay álgebra espacial
// más allá de la validación del anillo.
type Area struct {
	ID     string
	Name   string
	Points []Point
}
