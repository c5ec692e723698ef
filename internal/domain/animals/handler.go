package animals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"animal-chip-tracker/internal/middleware"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"
	"animal-chip-tracker/pkg/validator"

	"github.com/go-chi/chi/v5"
)

// Rutas planas: /animals/search y /animals/types/... (módulo animaltypes)
// tienen prioridad estática sobre {animalId}.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/animals/search", searchAnimalsHandler(svc))
	r.Get("/animals/{animalId}", getAnimalHandler(svc))
	r.Post("/animals", createAnimalHandler(svc))
	r.Put("/animals/{animalId}", updateAnimalHandler(svc))
	r.Delete("/animals/{animalId}", deleteAnimalHandler(svc))

	r.Post("/animals/{animalId}/types/{typeId}", addAnimalTypeHandler(svc))
	r.Put("/animals/{animalId}/types", replaceAnimalTypeHandler(svc))
	r.Delete("/animals/{animalId}/types/{typeId}", removeAnimalTypeHandler(svc))

	r.Get("/animals/{animalId}/locations", listVisitsHandler(svc))
	r.Post("/animals/{animalId}/locations/{pointId}", addVisitHandler(svc))
	r.Put("/animals/{animalId}/locations", updateVisitHandler(svc))
	// mismo nombre de parámetro que el POST: chi exige wildcards
	// consistentes en la misma posición; acá viaja el id de la visita
	r.Delete("/animals/{animalId}/locations/{pointId}", deleteVisitHandler(svc))
}

type createAnimalRequest struct {
	AnimalTypes        []string `json:"animalTypes" validate:"required,min=1"`
	Weight             *float64 `json:"weight" validate:"required,gt=0"`
	Length             *float64 `json:"length" validate:"required,gt=0"`
	Height             *float64 `json:"height" validate:"required,gt=0"`
	Gender             string   `json:"gender" validate:"required"`
	ChipperID          string   `json:"chipperId" validate:"required"`
	ChippingLocationID string   `json:"chippingLocationId" validate:"required"`
}

// Update parcial: nil = no tocar.
type updateAnimalRequest struct {
	Weight             *float64 `json:"weight"`
	Length             *float64 `json:"length"`
	Height             *float64 `json:"height"`
	Gender             *string  `json:"gender"`
	LifeStatus         *string  `json:"lifeStatus"`
	ChipperID          *string  `json:"chipperId"`
	ChippingLocationID *string  `json:"chippingLocationId"`
}

type replaceTypeRequest struct {
	OldTypeID string `json:"oldTypeId" validate:"required"`
	NewTypeID string `json:"newTypeId" validate:"required"`
}

type updateVisitRequest struct {
	VisitedLocationPointID string `json:"visitedLocationPointId" validate:"required"`
	LocationPointID        string `json:"locationPointId" validate:"required"`
}

type animalResponse struct {
	ID                 string     `json:"id"`
	AnimalTypes        []string   `json:"animalTypes"`
	Weight             float64    `json:"weight"`
	Length             float64    `json:"length"`
	Height             float64    `json:"height"`
	Gender             string     `json:"gender"`
	LifeStatus         string     `json:"lifeStatus"`
	ChippingDateTime   time.Time  `json:"chippingDateTime"`
	ChipperID          string     `json:"chipperId"`
	ChippingLocationID string     `json:"chippingLocationId"`
	VisitedLocations   []string   `json:"visitedLocations"`
	DeathDateTime      *time.Time `json:"deathDateTime"`
}

type visitResponse struct {
	ID                           string    `json:"id"`
	DateTimeOfVisitLocationPoint time.Time `json:"dateTimeOfVisitLocationPoint"`
	LocationPointID              string    `json:"locationPointId"`
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func searchAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := Filter{
			ChipperID:          q.Get("chipperId"),
			ChippingLocationID: q.Get("chippingLocationId"),
		}

		var err error
		if f.MinChippingTime, err = timeParam(q.Get("startDateTime")); err != nil {
			writeError(w, err)
			return
		}
		if f.MaxChippingTime, err = timeParam(q.Get("endDateTime")); err != nil {
			writeError(w, err)
			return
		}
		if raw := q.Get("lifeStatus"); raw != "" {
			ls, ok := ParseLifeStatus(raw)
			if !ok {
				writeError(w, apperr.Validation("lifeStatus must be ALIVE or DEAD"))
				return
			}
			f.LifeStatus = &ls
		}
		if raw := q.Get("gender"); raw != "" {
			g, ok := ParseGender(raw)
			if !ok {
				writeError(w, apperr.Validation("gender must be MALE, FEMALE or OTHER"))
				return
			}
			f.Gender = &g
		}
		if f.From, f.Size, err = pagingParams(q.Get("from"), q.Get("size")); err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.Search(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("animalTypes, positive weight/length/height, gender, chipperId and chippingLocationId are required"))
			return
		}

		gender, ok := ParseGender(req.Gender)
		if !ok {
			writeError(w, apperr.Validation("gender must be MALE, FEMALE or OTHER"))
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			TypeIDs:            req.AnimalTypes,
			Weight:             *req.Weight,
			Length:             *req.Length,
			Height:             *req.Height,
			Gender:             gender,
			ChipperID:          req.ChipperID,
			ChippingLocationID: req.ChippingLocationID,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/animals/%s", a.ID))
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}

		in := UpdateInput{
			Weight:             req.Weight,
			Length:             req.Length,
			Height:             req.Height,
			ChipperID:          req.ChipperID,
			ChippingLocationID: req.ChippingLocationID,
		}
		if req.Gender != nil {
			g, ok := ParseGender(*req.Gender)
			if !ok {
				writeError(w, apperr.Validation("gender must be MALE, FEMALE or OTHER"))
				return
			}
			in.Gender = &g
		}
		if req.LifeStatus != nil {
			ls, ok := ParseLifeStatus(*req.LifeStatus)
			if !ok {
				writeError(w, apperr.Validation("lifeStatus must be ALIVE or DEAD"))
				return
			}
			in.LifeStatus = &ls
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalId"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalId")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addAnimalTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		animalID := chi.URLParam(r, "animalId")
		a, err := svc.AddType(r.Context(), animalID, chi.URLParam(r, "typeId"))
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/animals/%s", a.ID))
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func replaceAnimalTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req replaceTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("oldTypeId and newTypeId are required"))
			return
		}

		a, err := svc.ReplaceType(r.Context(), chi.URLParam(r, "animalId"), req.OldTypeID, req.NewTypeID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func removeAnimalTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		a, err := svc.RemoveType(r.Context(), chi.URLParam(r, "animalId"), chi.URLParam(r, "typeId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func listVisitsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var f VisitFilter
		var err error
		if f.MinVisitedAt, err = timeParam(q.Get("startDateTime")); err != nil {
			writeError(w, err)
			return
		}
		if f.MaxVisitedAt, err = timeParam(q.Get("endDateTime")); err != nil {
			writeError(w, err)
			return
		}
		if f.From, f.Size, err = pagingParams(q.Get("from"), q.Get("size")); err != nil {
			writeError(w, err)
			return
		}

		visits, err := svc.ListVisits(r.Context(), chi.URLParam(r, "animalId"), f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]visitResponse, 0, len(visits))
		for _, v := range visits {
			out = append(out, toVisitResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func addVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		animalID := chi.URLParam(r, "animalId")
		v, err := svc.AddVisit(r.Context(), animalID, chi.URLParam(r, "pointId"))
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/animals/%s/locations/%s", animalID, v.ID))
		writeJSON(w, http.StatusCreated, toVisitResponse(v))
	}
}

func updateVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		var req updateVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("visitedLocationPointId and locationPointId are required"))
			return
		}

		v, err := svc.UpdateVisit(r.Context(), chi.URLParam(r, "animalId"),
			req.VisitedLocationPointID, req.LocationPointID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVisitResponse(v))
	}
}

func deleteVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper); err != nil {
			writeError(w, err)
			return
		}

		err := svc.DeleteVisit(r.Context(), chi.URLParam(r, "animalId"), chi.URLParam(r, "pointId"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	visitIDs := make([]string, 0, len(a.Visits))
	for _, v := range a.Visits {
		visitIDs = append(visitIDs, v.ID)
	}

	return animalResponse{
		ID:                 a.ID,
		AnimalTypes:        append([]string{}, a.TypeIDs...),
		Weight:             a.Weight,
		Length:             a.Length,
		Height:             a.Height,
		Gender:             string(a.Gender),
		LifeStatus:         string(a.LifeStatus),
		ChippingDateTime:   a.ChippingTime,
		ChipperID:          a.ChipperID,
		ChippingLocationID: a.ChippingLocationID,
		VisitedLocations:   visitIDs,
		DeathDateTime:      a.DeathTime,
	}
}

func toVisitResponse(v Visit) visitResponse {
	return visitResponse{
		ID:                           v.ID,
		DateTimeOfVisitLocationPoint: v.VisitedAt,
		LocationPointID:              v.LocationID,
	}
}

func timeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Validation("datetime must be RFC3339 UTC")
	}
	t = t.UTC()
	return &t, nil
}

func pagingParams(fromRaw, sizeRaw string) (from, size int, err error) {
	from, size = 0, 10
	if fromRaw != "" {
		from, err = strconv.Atoi(fromRaw)
		if err != nil || from < 0 {
			return 0, 0, apperr.Validation("from must be a non-negative integer")
		}
	}
	if sizeRaw != "" {
		size, err = strconv.Atoi(sizeRaw)
		if err != nil || size <= 0 {
			return 0, 0, apperr.Validation("size must be a positive integer")
		}
	}
	return from, size, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"message": apperr.PublicMessage(err)})
}
