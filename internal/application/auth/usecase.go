package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/jwt"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

var errInvalidCredentials = fmt.Errorf("%w: organización, email o contraseña inválidos", domain.ErrUnauthorized)

// AuthUseCase casos de uso de autenticación: alta de organización, login, alta de staff y login social.
type AuthUseCase struct {
	txRunner   TxRunner
	orgRepo    repository.OrganizationRepository
	userRepo   repository.UserRepository
	audit      AuditRecorder
	providers  map[string]OAuthProvider
	jwtCfg     JWTConfig
	log        *logger.Logger
	bcryptCost int
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. Los proveedores OAuth son opcionales.
func NewAuthUseCase(
	txRunner TxRunner,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	audit AuditRecorder,
	jwtCfg JWTConfig,
	log *logger.Logger,
	providers ...OAuthProvider,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	pm := make(map[string]OAuthProvider, len(providers))
	for _, p := range providers {
		pm[p.Name()] = p
	}
	return &AuthUseCase{
		txRunner:   txRunner,
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		audit:      audit,
		providers:  pm,
		jwtCfg:     jwtCfg,
		log:        log,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// RegisterOrganization crea la organización y su primer usuario (admin) en una transacción.
// El nombre de organización es único sin distinguir mayúsculas y el email es único global.
func (uc *AuthUseCase) RegisterOrganization(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	orgName := strings.TrimSpace(in.OrganizationName)
	name := strings.TrimSpace(in.Name)
	if email == "" || orgName == "" || name == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var org *entity.Organization
	var user *entity.User
	err = uc.txRunner.RunAuth(ctx, func(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) error {
		existing, err := orgRepo.GetByName(ctx, orgName)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrOrganizationExists
		}
		u, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil {
			return domain.ErrEmailAlreadyExists
		}
		org, user = uc.newOrganizationWithAdmin(orgName, email, name, string(hash), entity.ProviderLocal)
		if err := orgRepo.Create(ctx, org); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user, org)
}

// Login resuelve la organización por nombre, verifica email y password y emite un token.
// Cualquier discrepancia devuelve el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, meta dto.Actor) (*dto.AuthResponse, error) {
	orgName := strings.TrimSpace(in.OrganizationName)
	email := normalizeEmail(in.Email)
	if orgName == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	org, err := uc.orgRepo.GetByName(ctx, orgName)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errInvalidCredentials
	}
	user, err := uc.userRepo.GetByEmailAndOrganization(ctx, email, org.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	out, err := uc.issue(user, org)
	if err != nil {
		return nil, err
	}
	uc.recordLogin(ctx, user, fmt.Sprintf("User %q logged in", user.Name), meta)
	return out, nil
}

// RegisterStaff crea un usuario en la organización del admin. Rol por defecto: staff.
func (uc *AuthUseCase) RegisterStaff(ctx context.Context, actor dto.Actor, in dto.RegisterStaffRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: solo un admin puede registrar usuarios", domain.ErrForbidden)
	}
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.userRepo.GetByEmailAndOrganization(ctx, email, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Role:           role,
		Provider:       entity.ProviderLocal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.RecordBestEffort(ctx, &entity.AuditLog{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		Action:         entity.AuditActionCreate,
		EntityType:     "User",
		EntityID:       user.ID,
		Description:    fmt.Sprintf("User %q (%s) created with role %s", user.Name, user.Email, user.Role),
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})
	out := dto.UserFromEntity(user, nil)
	return &out, nil
}

// OAuthURL URL de consentimiento del proveedor.
func (uc *AuthUseCase) OAuthURL(provider, state string) (string, error) {
	p, ok := uc.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrProviderNotConfigured, provider)
	}
	return p.AuthCodeURL(state), nil
}

// OAuthLogin intercambia el código por el perfil. Si el email no existe se crea una
// organización nueva con el usuario como admin.
func (uc *AuthUseCase) OAuthLogin(ctx context.Context, provider, code string, meta dto.Actor) (*dto.AuthResponse, error) {
	p, ok := uc.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotConfigured, provider)
	}
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	profile, err := p.FetchProfile(ctx, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("provider", provider).Msg("oauth: perfil no disponible")
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: el proveedor no entregó email", domain.ErrUnauthorized)
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	var org *entity.Organization
	if user == nil {
		// Password aleatorio: la cuenta solo entra por el proveedor hasta que se defina uno.
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		orgName := fmt.Sprintf("%s's Organization %d", name, uc.now().UnixMilli())
		err = uc.txRunner.RunAuth(ctx, func(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) error {
			org, user = uc.newOrganizationWithAdmin(orgName, email, name, string(hash), provider)
			if err := orgRepo.Create(ctx, org); err != nil {
				return err
			}
			return userRepo.Create(ctx, user)
		})
		if err != nil {
			return nil, err
		}
		uc.log.Info().Str("provider", provider).Str("organization_id", org.ID).Msg("oauth: organización creada")
	} else {
		org, err = uc.orgRepo.GetByID(ctx, user.OrganizationID)
		if err != nil {
			return nil, err
		}
	}
	out, err := uc.issue(user, org)
	if err != nil {
		return nil, err
	}
	uc.recordLogin(ctx, user, fmt.Sprintf("User %q logged in via OAuth (%s)", user.Name, provider), meta)
	return out, nil
}

// Me devuelve el usuario autenticado con su organización.
func (uc *AuthUseCase) Me(ctx context.Context, actor dto.Actor) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != actor.OrganizationID {
		return nil, domain.ErrUserNotFound
	}
	org, err := uc.orgRepo.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(user, org)
	return &out, nil
}

func (uc *AuthUseCase) newOrganizationWithAdmin(orgName, email, name, hash, provider string) (*entity.Organization, *entity.User) {
	now := uc.now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      orgName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          email,
		PasswordHash:   hash,
		Name:           name,
		Role:           entity.RoleAdmin,
		Provider:       provider,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return org, user
}

func (uc *AuthUseCase) issue(user *entity.User, org *entity.Organization) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Email:          user.Email,
		Role:           user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.AuthResponse{AccessToken: token, User: dto.UserFromEntity(user, org)}, nil
}

func (uc *AuthUseCase) recordLogin(ctx context.Context, user *entity.User, description string, meta dto.Actor) {
	uc.audit.RecordBestEffort(ctx, &entity.AuditLog{
		OrganizationID: user.OrganizationID,
		UserID:         user.ID,
		Action:         entity.AuditActionLogin,
		EntityType:     "User",
		EntityID:       user.ID,
		Description:    description,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
