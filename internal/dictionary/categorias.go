// Package dictionary holds the curated category catalogue the categorias
// collection is seeded with on first use.
package dictionary

import "github.com/tinoosan/cuaderno/internal/ledger"

var curated = []ledger.Categoria{
	{ID: "ropa-mujer", Nombre: "Ropa de mujer", Icono: "👗", Color: "#E91E63"},
	{ID: "ropa-hombre", Nombre: "Ropa de hombre", Icono: "👔", Color: "#3F51B5"},
	{ID: "ropa-ninos", Nombre: "Ropa de niños", Icono: "🧸", Color: "#FF9800"},
	{ID: "calzado", Nombre: "Calzado", Icono: "👟", Color: "#795548"},
	{ID: "accesorios", Nombre: "Accesorios", Icono: "👜", Color: "#9C27B0"},
	{ID: ledger.DefaultCategoriaID, Nombre: "Otros", Icono: "🏷️", Color: "#607D8B"},
}

// Categorias returns a copy of the curated catalogue.
func Categorias() []ledger.Categoria {
	out := make([]ledger.Categoria, len(curated))
	copy(out, curated)
	return out
}

// IsCurated reports whether id belongs to the curated catalogue.
func IsCurated(id string) bool {
	for _, c := range curated {
		if c.ID == id {
			return true
		}
	}
	return false
}
