package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// UserUseCase administración de usuarios de la organización.
type UserUseCase struct {
	repo  repository.UserRepository
	audit AuditRecorder
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, audit AuditRecorder) *UserUseCase {
	return &UserUseCase{repo: repo, audit: audit}
}

// List usuarios de la organización.
func (uc *UserUseCase) List(ctx context.Context, organizationID string) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UserFromEntity(u, nil))
	}
	return out, nil
}

// Delete elimina un usuario. No se puede borrar a sí mismo ni al último admin.
func (uc *UserUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	if id == actor.UserID {
		return fmt.Errorf("%w: no puedes eliminar tu propio usuario", domain.ErrForbidden)
	}
	target, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil || target.OrganizationID != actor.OrganizationID {
		return domain.ErrUserNotFound
	}
	if target.Role == entity.RoleAdmin {
		admins, err := uc.repo.CountByRole(ctx, actor.OrganizationID, entity.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("%w: la organización debe conservar al menos un admin", domain.ErrConflict)
		}
	}
	if err := uc.repo.Delete(ctx, actor.OrganizationID, id); err != nil {
		return err
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionDelete, "User", id,
		fmt.Sprintf("User %q (%s) deleted", target.Name, target.Email)))
	return nil
}
