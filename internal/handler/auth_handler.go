/*
Package handler provides the HTTP handlers and routing setup for the TaskHub server.

This file holds the account registration and login handlers.
*/
package handler

import (
	"net/http"

	"taskhub/internal/app/db"
	"taskhub/internal/pkg/auth/jwt"
	"taskhub/internal/pkg/auth/password"
	"taskhub/internal/pkg/errs"
	"taskhub/internal/pkg/logx"
	"taskhub/internal/pkg/req"
	"taskhub/internal/pkg/resp"
	"taskhub/internal/pkg/validate"
)

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account from a username and password.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input credentialsInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validate.Username(input.Username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validate.Password(input.Password); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		passwordHash, err := password.Hash(input.Password)
		if err != nil {
			logx.Error(err, "register: password hashing failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		acct, err := deps.Accounts.Create(r.Context(), input.Username, passwordHash)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("register: username already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "register: failed to create account")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondJSON(w, r, http.StatusCreated, map[string]any{
			"id":       acct.ID,
			"username": acct.Username,
		})
	}
}

// HandleLogin verifies credentials and issues a bearer token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input credentialsInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Username == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingCredentials))
			return
		}

		acct, err := deps.Accounts.GetByUsername(r.Context(), input.Username)
		if err != nil {
			logx.Warn("login: account fetch failed", "username", input.Username, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !password.Verify(input.Password, acct.PasswordHash) {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		payload := &jwt.Payload{
			UserID:   acct.ID,
			Username: acct.Username,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.UserIdentityExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"token": token,
		})
	}
}
