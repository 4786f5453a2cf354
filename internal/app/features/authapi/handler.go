// Package authapi implements registration, login, session introspection,
// and logout for the bearer-token JSON API.
package authapi

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	tokenstore "github.com/mandatpro/kommunalcrm/internal/app/store/tokens"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/auth"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/slug"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Handler holds the auth feature's dependencies.
type Handler struct {
	Users  *userstore.Store
	Orgs   *orgstore.Store
	Tokens *tokenstore.Store
	Log    *zap.Logger
}

// NewHandler constructs the auth handler.
func NewHandler(users *userstore.Store, orgs *orgstore.Store, tokens *tokenstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Orgs: orgs, Tokens: tokens, Log: logger}
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	City         string `json:"city"`
	Organization string `json:"organization"`
	OrgType      string `json:"org_type"`
	Role         string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register. The registrant's email domain is
// checked first: an organization that already claims the domain absorbs
// the new user regardless of the organization name they typed. Otherwise
// the organization slug is derived from the display name and the
// organization is created on first use.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.OrgType == "" {
		req.OrgType = "fraktion"
	}
	if req.Role == "" {
		req.Role = "user"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		httpjson.Error(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	orgSlug, orgType, err := h.resolveOrganization(ctx, &req)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := store.NowISO()
	user := &models.User{
		Email:        req.Email,
		Password:     auth.HashPassword(req.Password),
		FullName:     req.FullName,
		City:         req.City,
		Organization: orgSlug,
		OrgType:      orgType,
		Role:         req.Role,
		CreatedDate:  now,
		UpdatedDate:  now,
	}
	userID, err := h.Users.Create(ctx, user)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.Tokens.Create(ctx, userID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", userID),
		zap.String("organization", orgSlug))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userstore.Sanitize(user, userID),
	})
}

// resolveOrganization returns the slug and org type the registrant belongs
// to, creating the organization record when it does not exist yet. An
// organization matched by email domain claims the user wholesale: its slug
// and type win over whatever the registrant typed.
func (h *Handler) resolveOrganization(ctx context.Context, req *registerRequest) (string, string, error) {
	domain := slug.EmailDomain(req.Email)
	if org, err := h.Orgs.FindByEmailDomain(ctx, domain); err == nil {
		orgType := org.Type
		if orgType == "" {
			orgType = req.OrgType
		}
		return org.Name, orgType, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", "", err
	}

	orgSlug := slug.FromDisplayName(req.Organization)
	if _, err := h.Orgs.FindBySlug(ctx, orgSlug); err == nil {
		return orgSlug, req.OrgType, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", "", err
	}

	org := &models.Organization{
		Name:        orgSlug,
		DisplayName: req.Organization,
		Type:        req.OrgType,
		City:        req.City,
		EmailDomain: domain,
		CreatedDate: store.NowISO(),
	}
	if err := h.Orgs.Create(ctx, org); err != nil {
		return "", "", err
	}
	return orgSlug, req.OrgType, nil
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.Tokens.Create(ctx, user.ID.Hex())
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userstore.Sanitize(user, user.ID.Hex()),
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, ok := h.currentUser(ctx, w, r)
	if !ok {
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// UpdateMe handles PUT /auth/me. The email field is immutable; a plaintext
// password in the patch is re-hashed by the store.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, ok := h.authenticate(ctx, w, r)
	if !ok {
		return
	}

	var patch map[string]any
	if err := httpjson.Decode(r, &patch); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	delete(patch, "email")

	view, err := h.Users.Update(ctx, userID, bson.M(patch))
	if err != nil {
		httpjson.StoreError(w, err, "User")
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// Logout handles POST /auth/logout. Revoking an unknown or absent token is
// a no-op; the response is always a success.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.BearerToken(r); token != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Tokens.Revoke(ctx, token); err != nil {
			h.Log.Warn("token revoke failed", zap.Error(err))
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// authenticate resolves the request's bearer token to a user id, writing
// the 401 response itself when the credential is missing or unknown.
func (h *Handler) authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	token := auth.BearerToken(r)
	if token == "" {
		httpjson.Error(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	userID, err := h.Tokens.Resolve(ctx, token)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}

// currentUser resolves the bearer token to the sanitized user view.
func (h *Handler) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (documents.Document, bool) {
	userID, ok := h.authenticate(ctx, w, r)
	if !ok {
		return nil, false
	}
	view, err := h.Users.ViewByID(ctx, userID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return view, true
}
