package controllers

import (
	"net/http"
	"time"

	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/api/validators"
	"github.com/health-optimised/directory-backend/internal/accounts"
	pkgAuth "github.com/health-optimised/directory-backend/pkg/auth"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Session     accounts.Session `json:"session"`
	AccessToken string           `json:"access_token"`
}

// AuthLogin matches credentials against the account directory and issues an
// access token for the recorded session.
func AuthLogin(dir *accounts.Directory, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := dir.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), session.Username, session.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeInternal, err, "mint jwt"))
			return
		}

		responses.WriteSuccess(w, loginResponse{Session: session, AccessToken: token})
	}
}

// AuthLogout drops the active session.
func AuthLogout(dir *accounts.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir.Logout(r.Context())
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthSession returns the active session, if any.
func AuthSession(dir *accounts.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := dir.CurrentSession()
		if !ok {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeUnauthorized, "no active session"))
			return
		}
		responses.WriteSuccess(w, session)
	}
}
