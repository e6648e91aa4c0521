package auth

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// TxRunner ejecuta el alta de organización + usuario en una sola transacción.
type TxRunner interface {
	RunAuth(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
	) error) error
}

// AuditRecorder registro best-effort de auditoría.
type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, entry *entity.AuditLog)
}

// OAuthProfile datos mínimos devueltos por un proveedor social.
type OAuthProfile struct {
	Email string
	Name  string
}

// OAuthProvider proveedor de login social (Google, Facebook).
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*OAuthProfile, error)
}
