package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the request body for POST /profiles
type RegisterRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	RoleID       int64  `json:"role_id"`
}

// Validate implements Validator.
func (req RegisterRequest) Validate() h.FieldErrors {
	errs := h.FieldErrors{}
	email := normalizeEmail(req.Email)
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case len(email) > 320:
		errs.Add("email", "email must be at most 320 characters")
	case !emailRegexp.MatchString(email):
		errs.Add("email", "invalid email format")
	}
	requireText(errs, "first_name", req.FirstName, 50)
	requireText(errs, "last_name", req.LastName, 100)
	// bcrypt only reads the first 72 bytes.
	switch n := len(req.Password); {
	case strings.TrimSpace(req.Password) == "":
		errs.Add("password", "password is required")
	case n < 8 || n > 72:
		errs.Add("password", "password must be between 8 and 72 characters")
	}
	requireText(errs, "phone", req.Phone, 20)
	if utf8.RuneCountInString(req.Organization) > 50 {
		errs.Add("organization", "organization must be at most 50 characters")
	}
	if req.RoleID <= 0 {
		errs.Add("role_id", "role_id is required")
	}
	return errs
}

// AuthenticateRequest is the request body for POST /profiles/authenticate
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (req AuthenticateRequest) Validate() h.FieldErrors {
	errs := h.FieldErrors{}
	if strings.TrimSpace(req.Email) == "" {
		errs.Add("email", "email is required")
	}
	if req.Password == "" {
		errs.Add("password", "password is required")
	}
	return errs
}

// TokenResponse is the response body for POST /profiles/authenticate
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a profile
// @Description Create an organizer profile. The password is stored hashed. A welcome email is sent on a best-effort basis.
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the created profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (role)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or phone taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles [post]
func (c *ProfileController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.Register(r.Context(), domain.RegisterInput{
		Email:        normalizeEmail(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Password:     req.Password,
		Phone:        strings.TrimSpace(req.Phone),
		Organization: strings.TrimSpace(req.Organization),
		RoleID:       req.RoleID,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, profile)
}

// Authenticate godoc
// @Summary Authenticate
// @Description Exchange email and password for a bearer token. Unknown emails and wrong passwords get the same answer. Rate limited per client IP.
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body AuthenticateRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/authenticate [post]
func (c *ProfileController) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Authenticate(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}

// Me godoc
// @Summary Get the current profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me [get]
func (c *ProfileController) Me(w http.ResponseWriter, r *http.Request) {
	sub, ok := subject(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.GetByEmail(r.Context(), sub)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireText(errs h.FieldErrors, field, value string, limit int) {
	switch {
	case strings.TrimSpace(value) == "":
		errs.Add(field, field+" is required")
	case utf8.RuneCountInString(value) > limit:
		errs.Add(field, field+" must be at most "+strconv.Itoa(limit)+" characters")
	}
}
