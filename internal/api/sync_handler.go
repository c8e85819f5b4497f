package api

import (
	"net/http"

	"github.com/lexday/lexday-api/internal/api/shared"
	syncsvc "github.com/lexday/lexday-api/internal/service/sync"
)

// SyncHandler handles replica synchronization API requests.
type SyncHandler struct {
	syncService syncsvc.SyncService
}

// NewSyncHandler creates a new SyncHandler with the given dependencies.
func NewSyncHandler(syncService syncsvc.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// TriggerSync handles POST /sync. The optional trigger query parameter
// records what initiated the sync; any unknown value counts as manual.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	trigger := syncsvc.TriggerManual
	switch syncsvc.Trigger(r.URL.Query().Get("trigger")) {
	case syncsvc.TriggerForeground:
		trigger = syncsvc.TriggerForeground
	case syncsvc.TriggerConnectivity:
		trigger = syncsvc.TriggerConnectivity
	}

	status := h.syncService.SyncOnce(r.Context(), trigger)
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// SyncStatus handles GET /sync/status.
func (h *SyncHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.syncService.Status())
}
