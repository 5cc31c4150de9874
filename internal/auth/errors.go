package auth

import "strings"

// TranslateError maps raw auth-provider error messages to the Spanish
// user-facing copy shown by the client. Matching is substring-based because
// the provider only guarantees message text, not error codes.
func TranslateError(err error) string {
	if err == nil {
		return ""
	}
	message := strings.ToLower(err.Error())

	switch {
	case strings.Contains(message, "invalid login credentials"):
		return "Credenciales incorrectas. Verifica tu email y contraseña."
	case strings.Contains(message, "email not confirmed"):
		return "Por favor confirma tu correo electrónico antes de iniciar sesión."
	case strings.Contains(message, "user already registered"):
		return "Este correo electrónico ya está registrado."
	case strings.Contains(message, "password should be at least"):
		return "La contraseña debe tener al menos 6 caracteres."
	case strings.Contains(message, "email address is invalid"):
		return "El correo electrónico no es válido."
	case strings.Contains(message, "invalid email"):
		return "El formato del correo electrónico no es válido."
	case strings.Contains(message, "user not found"):
		return "No existe una cuenta con este correo electrónico."
	case strings.Contains(message, "email rate limit exceeded"):
		return "Demasiados intentos. Por favor espera unos minutos antes de intentar de nuevo."
	case strings.Contains(message, "signup disabled"):
		return "El registro de nuevas cuentas está temporalmente deshabilitado."
	case strings.Contains(message, "invalid password"):
		return "La contraseña no es válida."
	case strings.Contains(message, "network"), strings.Contains(message, "fetch"):
		return "Error de conexión. Verifica tu conexión a internet."
	default:
		return "Ocurrió un error. Por favor intenta de nuevo."
	}
}
