package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

type indexResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// registerFrontend wires the non-API surface. With a frontend directory
// present its assets are served under /static/ and index.html answers every
// non-API path; without one the root lists the available endpoints.
func (h *Handler) registerFrontend(r *mux.Router) {
	if h.frontendAvailable() {
		fs := http.FileServer(http.Dir(h.cfg.FrontendDir))
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs)).Methods(http.MethodGet)
		r.PathPrefix("/").HandlerFunc(h.frontendFallback).Methods(http.MethodGet)
		return
	}
	r.HandleFunc("/", h.index).Methods(http.MethodGet)
}

func (h *Handler) frontendAvailable() bool {
	if h.cfg.FrontendDir == "" {
		return false
	}
	info, err := os.Stat(h.cfg.FrontendDir)
	return err == nil && info.IsDir()
}

func (h *Handler) frontendFallback(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.cfg.FrontendDir, "index.html"))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Service: h.cfg.AppName,
		Version: h.cfg.AppVersion,
		Endpoints: []string{
			"GET /api/v1/gene/{symbol}",
			"GET /api/v1/gene/{symbol}/exists",
			"GET /api/v1/gene/{symbol}/signor",
		},
	})
}
