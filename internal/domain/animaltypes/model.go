package animaltypes

// AnimalType es data de referencia: un nombre de tipo único ("fox",
// "reindeer", ...) que los animales marcan en su set de tipos.
type AnimalType struct {
	ID   string
	Type string
}
