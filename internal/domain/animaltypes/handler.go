package animaltypes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"animal-chip-tracker/internal/middleware"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"

	"github.com/go-chi/chi/v5"
)

// Rutas planas bajo /animals/types: el segmento estático "types" tiene
// prioridad sobre /animals/{animalId}, y registrarlas sin subrouter evita
// montar dos árboles sobre /animals.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/animals/types/{typeId}", getTypeHandler(svc))
	r.Post("/animals/types", createTypeHandler(svc))
	r.Put("/animals/types/{typeId}", updateTypeHandler(svc))
	r.Delete("/animals/types/{typeId}", deleteTypeHandler(svc))
}

type typeRequest struct {
	Type string `json:"type"`
}

type typeResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func getTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetByID(r.Context(), chi.URLParam(r, "typeId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, typeResponse{ID: t.ID, Type: t.Type})
	}
}

func createTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req typeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}

		t, err := svc.Create(r.Context(), req.Type)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/animals/types/%s", t.ID))
		writeJSON(w, http.StatusCreated, typeResponse{ID: t.ID, Type: t.Type})
	}
}

func updateTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req typeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}

		t, err := svc.Update(r.Context(), chi.URLParam(r, "typeId"), req.Type)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, typeResponse{ID: t.ID, Type: t.Type})
	}
}

func deleteTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "typeId")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": apperr.PublicMessage(err)})
}
