package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/pkg/config"
)

type fakeIdP struct {
	srv          *httptest.Server
	profileCalls atomic.Int32
	profileCode  atomic.Int32
	profile      map[string]string
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	f := &fakeIdP{profile: map[string]string{"email": " Ana@Acme.TEST ", "name": "Ana"}}
	f.profileCode.Store(http.StatusOK)
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		f.profileCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(int(f.profileCode.Load()))
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIdP) provider() *Provider {
	return NewProvider(Settings{
		Name:         "google",
		ClientID:     "client-id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3001/api/auth/google/callback",
		Scopes:       []string{"email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.srv.URL + "/auth",
			TokenURL:  f.srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		ProfileURL: f.srv.URL + "/profile",
	}, nil)
}

func TestFetchProfile_OK(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider()

	profile, err := p.FetchProfile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.test", profile.Email)
	assert.Equal(t, "Ana", profile.Name)
}

func TestFetchProfile_CodigoInvalidoNoAbreElCircuito(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider()

	for i := 0; i < 8; i++ {
		_, err := p.FetchProfile(context.Background(), "bad")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.Equal(t, gobreaker.StateClosed, p.breaker.State())

	_, err := p.FetchProfile(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFetchProfile_SinEmail(t *testing.T) {
	idp := newFakeIdP(t)
	idp.profile = map[string]string{"name": "Sin Email"}
	p := idp.provider()

	_, err := p.FetchProfile(context.Background(), "good")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFetchProfile_CircuitoAbierto(t *testing.T) {
	idp := newFakeIdP(t)
	idp.profileCode.Store(http.StatusInternalServerError)
	p := idp.provider()

	for i := 0; i < 5; i++ {
		_, err := p.FetchProfile(context.Background(), "good")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, p.breaker.State())

	calls := idp.profileCalls.Load()
	_, err := p.FetchProfile(context.Background(), "good")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, calls, idp.profileCalls.Load(), "con el circuito abierto no se llama al proveedor")
}

func TestAuthCodeURL(t *testing.T) {
	idp := newFakeIdP(t)
	u := idp.provider().AuthCodeURL("state-xyz")
	assert.Contains(t, u, idp.srv.URL+"/auth?")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state=state-xyz")
}

func TestNewGoogleYFacebook(t *testing.T) {
	c := config.OAuthProviderConfig{ClientID: "id", ClientSecret: "s", CallbackURL: "http://cb"}
	g := NewGoogle(c, nil)
	fb := NewFacebook(c, nil)
	assert.Equal(t, "google", g.Name())
	assert.Equal(t, "facebook", fb.Name())
	assert.Equal(t, GoogleProfileURL, g.profileURL)
	assert.Contains(t, fb.AuthCodeURL("s"), "facebook.com")
}
