package repository

// Límites de paginación para listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page ventana limit/offset de un listado.
type Page struct {
	Limit  int
	Offset int
}

// Normalize aplica valores por defecto y topes.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
