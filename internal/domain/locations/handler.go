package locations

import (
	"encoding/json"
	"fmt"
	"net/http"

	"animal-chip-tracker/internal/middleware"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"
	"animal-chip-tracker/pkg/validator"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/locations", func(lr chi.Router) {
		lr.Get("/", listLocationsHandler(svc))
		lr.Get("/{pointId}", getLocationHandler(svc))
		lr.Post("/", createLocationHandler(svc))
		lr.Put("/{pointId}", updateLocationHandler(svc))
		lr.Delete("/{pointId}", deleteLocationHandler(svc))
	})
}

type locationRequest struct {
	Longitude *float64 `json:"longitude" validate:"required,lon"`
	Latitude  *float64 `json:"latitude" validate:"required,lat"`
}

type locationResponse struct {
	ID        string  `json:"id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func listLocationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := svc.List(r.Context(), r.URL.Query()["ids"])
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]locationResponse, 0, len(ls))
		for _, l := range ls {
			out = append(out, toLocationResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.GetByID(r.Context(), chi.URLParam(r, "pointId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLocationResponse(l))
	}
}

func createLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("longitude must be in [-180,180] and latitude in [-90,90]"))
			return
		}

		l, err := svc.Create(r.Context(), *req.Longitude, *req.Latitude)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/locations/%s", l.ID))
		writeJSON(w, http.StatusCreated, toLocationResponse(l))
	}
}

func updateLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("longitude must be in [-180,180] and latitude in [-90,90]"))
			return
		}

		l, err := svc.Update(r.Context(), chi.URLParam(r, "pointId"), *req.Longitude, *req.Latitude)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLocationResponse(l))
	}
}

func deleteLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "pointId")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toLocationResponse(l Location) locationResponse {
	return locationResponse{
		ID:        l.ID,
		Longitude: l.Longitude,
		Latitude:  l.Latitude,
	}
}

// writeJSON/writeError se repiten por módulo a propósito (mismo criterio que
// en los demás handlers): todavía no amerita un paquete compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": apperr.PublicMessage(err)})
}
