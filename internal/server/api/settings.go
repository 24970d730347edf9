package api

import (
	"net/http"

	"github.com/ayusman/handsign/internal/plugin"
)

// Toggle turns recognition on and off. *app.App implements it.
type Toggle interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// SettingsHandler serves runtime settings and the plugin list.
type SettingsHandler struct {
	toggle  Toggle
	plugins *plugin.Manager
}

// NewSettingsHandler creates a SettingsHandler. Either argument may be nil.
func NewSettingsHandler(t Toggle, plugins *plugin.Manager) *SettingsHandler {
	return &SettingsHandler{toggle: t, plugins: plugins}
}

type settingsBody struct {
	Enabled *bool `json:"enabled"`
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.toggle == nil {
		writeError(w, http.StatusServiceUnavailable, "Recognition is not running")
		return
	}
	enabled := h.toggle.IsEnabled()
	writeJSON(w, http.StatusOK, settingsBody{Enabled: &enabled})
}

// Update handles PUT /api/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.toggle == nil {
		writeError(w, http.StatusServiceUnavailable, "Recognition is not running")
		return
	}

	var req settingsBody
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled != nil {
		if err := h.toggle.SetEnabled(*req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}
	h.Get(w, r)
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

// Plugins handles GET /api/plugins.
func (h *SettingsHandler) Plugins(w http.ResponseWriter, r *http.Request) {
	response := listPluginsResponse{Plugins: []pluginResponse{}}
	if h.plugins != nil {
		for _, p := range h.plugins.List() {
			response.Plugins = append(response.Plugins, pluginResponse{
				Name:        p.Manifest.Name,
				Version:     p.Manifest.Version,
				Description: p.Manifest.Description,
				Actions:     p.Manifest.Actions,
			})
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// Rescan handles POST /api/plugins/rescan.
func (h *SettingsHandler) Rescan(w http.ResponseWriter, r *http.Request) {
	if h.plugins == nil {
		writeError(w, http.StatusServiceUnavailable, "No plugin directory configured")
		return
	}
	if err := h.plugins.Discover(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to scan plugins")
		return
	}
	h.Plugins(w, r)
}
