package restapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"macrotrack.app/fooddb"
	"macrotrack.app/internal/auth"
	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/models"
	"macrotrack.app/internal/utils"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *RestAPI) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := readJSON(w, r, &input); err != nil {
		api.badRequestBody(w, r, err)
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateUsername(input.Username); err != nil {
		fieldErrors["username"] = append(fieldErrors["username"], err.Error())
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		fieldErrors["email"] = append(fieldErrors["email"], err.Error())
	}
	if len(input.Password) < auth.MinPasswordLength {
		fieldErrors["password"] = append(fieldErrors["password"], "password must be at least 8 characters")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	user, err := api.DB.CreateUser(r.Context(), input.Username, input.Email, hash, api.DefaultGoals)
	if errors.Is(err, fooddb.ErrUserExists) {
		api.conflictResponse(w, r, "username or email is already registered")
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	logging.LogOperation(logging.FromContext(r.Context()), "user_registered",
		slog.Int64("user_id", user.ID))

	token, expiresAt, err := api.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendCreated(w, r, models.NewAuthToken(token, expiresAt, user))
}

func (api *RestAPI) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := readJSON(w, r, &input); err != nil {
		api.badRequestBody(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := api.DB.GetUserByEmail(r.Context(), email)
	if errors.Is(err, fooddb.ErrNotFound) {
		api.unauthorizedResponse(w, r, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
		api.unauthorizedResponse(w, r, auth.ErrInvalidCredentials.Error())
		return
	}

	token, expiresAt, err := api.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(models.NewAuthToken(token, expiresAt, user)))
}
