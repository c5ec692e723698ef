package areas

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
	r.Route("/areas", func(ar chi.Router) {
		ar.Get("/{areaId}", getAreaHandler(svc))
		ar.Post("/", createAreaHandler(svc))
		ar.Delete("/{areaId}", deleteAreaHandler(svc))
	})
}

type pointDTO struct {
	Longitude *float64 `json:"longitude" validate:"required,lon"`
	Latitude  *float64 `json:"latitude" validate:"required,lat"`
}

type areaRequest struct {
	Name   string     `json:"name" validate:"required"`
	Points []pointDTO `json:"areaPoints" validate:"required,dive"`
}

type areaResponse struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Points []pointDTO `json:"areaPoints"`
}

func getAreaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "areaId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAreaResponse(a))
	}
}

func createAreaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		var req areaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("name and valid areaPoints are required"))
			return
		}

		points := make([]Point, 0, len(req.Points))
		for _, p := range req.Points {
			points = append(points, Point{Longitude: *p.Longitude, Latitude: *p.Latitude})
		}

		a, err := svc.Create(r.Context(), req.Name, points)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/areas/%s", a.ID))
		writeJSON(w, http.StatusCreated, toAreaResponse(a))
	}
}

func deleteAreaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "areaId")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAreaResponse(a Area) areaResponse {
	points := make([]pointDTO, 0, len(a.Points))
	for _, p := range a.Points {
		lon, lat := p.Longitude, p.Latitude
		points = append(points, pointDTO{Longitude: &lon, Latitude: &lat})
	}
	return areaResponse{ID: a.ID, Name: a.Name, Points: points}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": apperr.PublicMessage(err)})
}
