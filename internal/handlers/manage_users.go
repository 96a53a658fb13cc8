package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/auth"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/errmap"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/google/uuid"
)

// Actions of the user administration endpoint.
const (
	ActionListUsers        = "list-users"
	ActionAssignRole       = "assign-role"
	ActionRemoveRole       = "remove-role"
	ActionMyRoles          = "my-roles"
	ActionSetupFirstAdmin  = "setup-first-admin"
	ActionApproveUser      = "approve-user"
	ActionRejectUser       = "reject-user"
	ActionUpdateMenuAccess = "update-menu-access"
)

type actionRule struct {
	adminOnly bool
	allowGET  bool
	needsBody bool
}

var manageActions = map[string]actionRule{
	ActionListUsers:        {adminOnly: true, allowGET: true},
	ActionMyRoles:          {allowGET: true},
	ActionSetupFirstAdmin:  {},
	ActionAssignRole:       {adminOnly: true, needsBody: true},
	ActionRemoveRole:       {adminOnly: true, needsBody: true},
	ActionApproveUser:      {adminOnly: true, needsBody: true},
	ActionRejectUser:       {adminOnly: true, needsBody: true},
	ActionUpdateMenuAccess: {adminOnly: true, needsBody: true},
}

type manageUsersRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	Role       string    `json:"role"`
	MenuAccess []string  `json:"menu_access"`
}

// ManageUsersHandler is the single action-dispatched user administration
// endpoint. The admin check is a fresh query on every call.
type ManageUsersHandler struct {
	admins *services.UserAdmin
}

func NewManageUsersHandler(admins *services.UserAdmin) *ManageUsersHandler {
	return &ManageUsersHandler{admins: admins}
}

func (h *ManageUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := lang(r)
	id, err := auth.ParseBearer(r)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(l, "unauthorized"), nil)
		return
	}

	action := r.URL.Query().Get("action")
	rule, ok := manageActions[action]
	switch {
	case r.Method != http.MethodGet && r.Method != http.MethodPost:
		httpx.JSONError(w, http.StatusMethodNotAllowed, i18n.T(l, "method_not_allowed"), nil)
		return
	case !ok:
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, "invalid_action"), nil)
		return
	case r.Method == http.MethodGet && !rule.allowGET:
		httpx.JSONError(w, http.StatusMethodNotAllowed, i18n.T(l, "method_not_allowed"), nil)
		return
	}

	ctx := r.Context()
	if rule.adminOnly {
		isAdmin, err := h.admins.IsAdmin(ctx, id.UserID)
		if err != nil {
			h.fail(w, r, action, err)
			return
		}
		if !isAdmin {
			httpx.JSONError(w, http.StatusForbidden, i18n.T(l, "forbidden"), nil)
			return
		}
	}

	var req manageUsersRequest
	if rule.needsBody {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, "invalid_request"), nil)
			return
		}
	}

	var payload any = map[string]bool{"success": true}
	switch action {
	case ActionListUsers:
		users, e := h.admins.ListUsers(ctx)
		payload, err = map[string]any{"users": users}, e
	case ActionMyRoles:
		payload, err = h.admins.MyRoles(ctx, id.UserID, id.Email)
	case ActionSetupFirstAdmin:
		err = h.admins.SetupFirstAdmin(ctx, id.UserID, id.Email)
	case ActionAssignRole:
		err = h.admins.AssignRole(ctx, id.UserID, req.UserID, req.Role)
	case ActionRemoveRole:
		err = h.admins.RemoveRole(ctx, id.UserID, req.UserID, req.Role)
	case ActionApproveUser:
		err = h.admins.Approve(ctx, id.UserID, req.UserID)
	case ActionRejectUser:
		err = h.admins.Reject(ctx, id.UserID, req.UserID)
	case ActionUpdateMenuAccess:
		err = h.admins.UpdateMenuAccess(ctx, req.UserID, req.MenuAccess)
	}
	if err != nil {
		h.fail(w, r, action, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}

// fail answers 400 for caller errors and 500 with a reduced message for
// everything else.
func (h *ManageUsersHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	l := lang(r)
	for _, br := range badRequests {
		if errors.Is(err, br.err) {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, br.code), nil)
			return
		}
	}
	if errmap.Classify(err) == errmap.NotFound {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(l, "err_not_found"), nil)
		return
	}
	log.Printf("manage-users %s: %v", action, err)
	httpx.JSONError(w, http.StatusInternalServerError, errmap.MessageFor(l, err), nil)
}
