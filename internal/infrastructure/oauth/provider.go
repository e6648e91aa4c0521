package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// URLs de perfil de cada proveedor.
const (
	GoogleProfileURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	FacebookProfileURL = "https://graph.facebook.com/me?fields=id,name,email"
)

// maxProfileBytes límite de lectura de la respuesta de perfil.
const maxProfileBytes = 1 << 20

var _ auth.OAuthProvider = (*Provider)(nil)

// Settings configuración de un proveedor OAuth2.
type Settings struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoint     oauth2.Endpoint
	ProfileURL   string
	Timeout      time.Duration
}

// Provider login social: intercambia el código por un token y lee el perfil (email, nombre).
// Las llamadas al proveedor pasan por un circuit breaker.
type Provider struct {
	name       string
	cfg        *oauth2.Config
	profileURL string
	timeout    time.Duration
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewProvider construye un proveedor genérico.
func NewProvider(s Settings, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oauth-" + s.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// un código inválido es error del usuario, no del proveedor
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrUnauthorized)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker OAuth cambió de estado")
		},
	})
	return &Provider{
		name: s.Name,
		cfg: &oauth2.Config{
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			RedirectURL:  s.RedirectURL,
			Scopes:       s.Scopes,
			Endpoint:     s.Endpoint,
		},
		profileURL: s.ProfileURL,
		timeout:    s.Timeout,
		breaker:    breaker,
		log:        log,
	}
}

// NewGoogle proveedor Google (scopes email y profile).
func NewGoogle(c config.OAuthProviderConfig, log *logger.Logger) *Provider {
	return NewProvider(Settings{
		Name:         entity.ProviderGoogle,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.CallbackURL,
		Scopes:       []string{"email", "profile"},
		Endpoint:     endpoints.Google,
		ProfileURL:   GoogleProfileURL,
	}, log)
}

// NewFacebook proveedor Facebook (scope email).
func NewFacebook(c config.OAuthProviderConfig, log *logger.Logger) *Provider {
	return NewProvider(Settings{
		Name:         entity.ProviderFacebook,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.CallbackURL,
		Scopes:       []string{"email"},
		Endpoint:     endpoints.Facebook,
		ProfileURL:   FacebookProfileURL,
	}, log)
}

// Name nombre del proveedor (google, facebook).
func (p *Provider) Name() string { return p.name }

// AuthCodeURL URL de consentimiento del proveedor.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// FetchProfile intercambia el código y obtiene email y nombre del usuario.
func (p *Provider) FetchProfile(ctx context.Context, code string) (*auth.OAuthProfile, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: código de autorización vacío", domain.ErrUnauthorized)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.breaker.Execute(func() (interface{}, error) {
		tok, err := p.cfg.Exchange(ctx, code)
		if err != nil {
			var re *oauth2.RetrieveError
			if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
				return nil, fmt.Errorf("%w: intercambio de código rechazado", domain.ErrUnauthorized)
			}
			return nil, fmt.Errorf("intercambio de código: %w", err)
		}
		return p.fetchProfile(ctx, tok)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("proveedor %s no disponible: %w", p.name, err)
		}
		return nil, err
	}
	profile := res.(*auth.OAuthProfile)
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: %s no devolvió email", domain.ErrUnauthorized, p.name)
	}
	return profile, nil
}

func (p *Provider) fetchProfile(ctx context.Context, tok *oauth2.Token) (*auth.OAuthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request de perfil: %w", err)
	}
	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("leer perfil: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perfil %s: status %d", p.name, resp.StatusCode)
	}
	var raw struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decodificar perfil: %w", err)
	}
	return &auth.OAuthProfile{
		Email: strings.ToLower(strings.TrimSpace(raw.Email)),
		Name:  strings.TrimSpace(raw.Name),
	}, nil
}
