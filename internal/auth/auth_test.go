package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareExtractsIdentity(t *testing.T) {
	var got User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "user-1")
	req.Header.Set("X-User-Name", "María")
	req.Header.Set("Authorization", "Bearer token-123")
	resp := httptest.NewRecorder()

	Middleware(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.ID != "user-1" || got.Name != "María" || got.Token != "token-123" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestMiddlewareDefaultsDisplayName(t *testing.T) {
	var got User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "user-1")
	Middleware(next).ServeHTTP(httptest.NewRecorder(), req)

	if got.Name != "Estudiante" {
		t.Fatalf("expected default display name, got %q", got.Name)
	}
}

func TestMiddlewareRejectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without identity")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	Middleware(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestTranslateError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Invalid login credentials", "Credenciales incorrectas. Verifica tu email y contraseña."},
		{"Email not confirmed", "Por favor confirma tu correo electrónico antes de iniciar sesión."},
		{"User already registered", "Este correo electrónico ya está registrado."},
		{"Password should be at least 6 characters", "La contraseña debe tener al menos 6 caracteres."},
		{"network request failed", "Error de conexión. Verifica tu conexión a internet."},
		{"something unexpected", "Ocurrió un error. Por favor intenta de nuevo."},
	}

	for _, tc := range cases {
		if got := TranslateError(errors.New(tc.in)); got != tc.want {
			t.Fatalf("TranslateError(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTranslateErrorNil(t *testing.T) {
	if got := TranslateError(nil); got != "" {
		t.Fatalf("expected empty string for nil error, got %q", got)
	}
}
