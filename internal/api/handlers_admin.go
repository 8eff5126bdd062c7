// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"net/http"

	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/models"
)

// RefreshStatus reports the state of the server_info refresh.
//
// @Summary Server info refresh status
// @Tags Admin
// @Produce json
// @Success 200 {object} models.APIResponse{data=services.RefreshStatus}
// @Failure 404 {object} models.APIResponse "Refresh not configured"
// @Router /admin/refresh [get]
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Server info refresh is not enabled", nil)
		return
	}
	respondSuccess(w, http.StatusOK, h.refresh.Status(), models.Metadata{})
}

// TriggerRefresh queues a server_info refresh and returns immediately with
// 202. A refresh that is already queued yields 409. Computed results are
// dropped when the refresh saves new station data.
//
// @Summary Queue a server info refresh
// @Tags Admin
// @Produce json
// @Success 202 {object} models.APIResponse{data=services.RefreshStatus}
// @Failure 409 {object} models.APIResponse "Refresh already queued"
// @Router /admin/refresh [post]
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Server info refresh is not enabled", nil)
		return
	}

	if !h.refresh.Trigger() {
		respondError(w, http.StatusConflict, "CONFLICT", "A server info refresh is already queued", nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
		Msg("Server info refresh queued")

	respondSuccess(w, http.StatusAccepted, h.refresh.Status(), models.Metadata{})
}
