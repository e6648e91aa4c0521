package http

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// AuthHandler maneja registro, login y OAuth.
type AuthHandler struct {
	uc          *auth.AuthUseCase
	frontendURL string
	log         *logger.Logger
}

// NewAuthHandler construye el handler de auth. frontendURL recibe las redirecciones del flujo OAuth.
func NewAuthHandler(uc *auth.AuthUseCase, frontendURL string, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{uc: uc, frontendURL: strings.TrimRight(frontendURL, "/"), log: log}
}

// Register godoc
// @Summary      Registrar organización
// @Description  Crea la organización y su primer usuario con rol admin. Devuelve el token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, organizationName"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterOrganization(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "organizationName, email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.Context(), in, requestMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterStaff godoc
// @Summary      Registrar usuario de la organización
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterStaffRequest  true  "email, password, name, role (admin|staff)"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register-staff [post]
func (h *AuthHandler) RegisterStaff(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RegisterStaffRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterStaff(c.Context(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Me(c.Context(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OAuthRedirect godoc
// @Summary      Iniciar login con proveedor OAuth
// @Description  Redirige a la pantalla de consentimiento. Si el proveedor no está configurado
//
//	redirige al frontend con error=oauth_not_configured.
//
// @Tags         auth
// @Param        provider  path  string  true  "google | facebook"
// @Success      302
// @Router       /api/auth/{provider} [get]
func (h *AuthHandler) OAuthRedirect(c *fiber.Ctx) error {
	provider := c.Params("provider")
	state := uuid.New().String()
	target, err := h.uc.OAuthURL(provider, state)
	if err != nil {
		return c.Redirect(h.loginErrorURL("oauth_not_configured", provider), fiber.StatusFound)
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(target, fiber.StatusFound)
}

// OAuthCallback godoc
// @Summary      Callback del proveedor OAuth
// @Description  Intercambia el código, crea la organización si el email es nuevo y redirige a
//
//	FRONTEND_URL/auth/callback?token=...&user=... (o a /login?error=oauth_failed).
//
// @Tags         auth
// @Param        provider  path   string  true  "google | facebook"
// @Param        code      query  string  true  "código de autorización"
// @Param        state     query  string  true  "state emitido en la redirección"
// @Success      302
// @Router       /api/auth/{provider}/callback [get]
func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	expected := c.Cookies(oauthStateCookie)
	c.ClearCookie(oauthStateCookie)
	if expected == "" || c.Query("state") != expected {
		h.log.Warn().Str("provider", provider).Msg("oauth: state inválido")
		return c.Redirect(h.loginErrorURL("oauth_failed", ""), fiber.StatusFound)
	}

	out, err := h.uc.OAuthLogin(c.Context(), provider, c.Query("code"), requestMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrProviderNotConfigured) {
			return c.Redirect(h.loginErrorURL("oauth_not_configured", provider), fiber.StatusFound)
		}
		h.log.Warn().Err(err).Str("provider", provider).Msg("oauth: login fallido")
		return c.Redirect(h.loginErrorURL("oauth_failed", ""), fiber.StatusFound)
	}
	user, err := json.Marshal(out.User)
	if err != nil {
		return writeError(c, err)
	}
	q := url.Values{}
	q.Set("token", out.AccessToken)
	q.Set("user", string(user))
	return c.Redirect(h.frontendURL+"/auth/callback?"+q.Encode(), fiber.StatusFound)
}

func (h *AuthHandler) loginErrorURL(code, provider string) string {
	q := url.Values{}
	q.Set("error", code)
	if provider != "" {
		q.Set("provider", provider)
	}
	return h.frontendURL + "/login?" + q.Encode()
}
