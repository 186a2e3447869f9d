package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/jbweber/homelab/poke/internal/domain"
)

// Authenticator checks a username and password pair
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.UserOut, bool, error)
}

// Login groups the credential handlers
type Login struct {
	auth Authenticator
}

func NewLogin(auth Authenticator) *Login {
	return &Login{auth: auth}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginHandler handles POST /user/login.
// Returns the user on success and 401 for any unknown user or wrong password.
func (l *Login) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, ok, err := l.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeRepositoryError(w, r, "User", err)
		return
	}
	if !ok {
		hlog.FromRequest(r).Info().Str("username", req.Username).Msg("login rejected")
		writeError(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	writeJSON(w, r, http.StatusOK, user)
}
