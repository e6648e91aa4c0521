package dto

// Límites de paginación.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest paginación basada en página (1..n). Valores fuera de rango se corrigen con Normalize.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto si Page/Limit son cero o están fuera de rango.
func (p *PageRequest) Normalize(defLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta calcula totalPages = ceil(total/limit).
func NewPageMeta(total int, p PageRequest) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageMeta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// PagedResponse lista paginada { data, meta }.
type PagedResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// Actor identidad autenticada que ejecuta un caso de uso (extraída del JWT por el middleware).
type Actor struct {
	UserID         string
	OrganizationID string
	Role           string
	IPAddress      string
	UserAgent      string
}
