package api

import (
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/service/audit"
	"github.com/taskdeck/taskdeck-api/internal/service/authz"
)

// AuditHandler exposes the in-memory audit trail, admin and above only.
type AuditHandler struct {
	recorder   *audit.Recorder
	authorizer *authz.Authorizer
}

// NewAuditHandler creates a new AuditHandler with the given dependencies.
func NewAuditHandler(recorder *audit.Recorder, authorizer *authz.Authorizer) *AuditHandler {
	return &AuditHandler{
		recorder:   recorder,
		authorizer: authorizer,
	}
}

// List handles GET /audit-log. Returns the most recent entries, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.authorizer.Authorize(authz.OpAuditList, identity.Role); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewAuditLogResponse(h.recorder.Recent()))
}
