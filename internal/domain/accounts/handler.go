package accounts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"animal-chip-tracker/internal/middleware"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"
	"animal-chip-tracker/pkg/validator"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/registration", registrationHandler(svc))

	r.Route("/accounts", func(ar chi.Router) {
		ar.Get("/search", searchAccountsHandler(svc))
		ar.Get("/{accountId}", getAccountHandler(svc))
		ar.Post("/", createAccountHandler(svc))
		ar.Put("/{accountId}", updateAccountHandler(svc))
		ar.Delete("/{accountId}", deleteAccountHandler(svc))
	})
}

type registrationRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type accountRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

type accountResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func registrationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// El registro es solo para anónimos; una sesión autenticada no
		// puede registrar cuentas nuevas.
		if _, ok := middleware.GetClaims(r.Context()); ok {
			writeError(w, apperr.Forbidden("already authenticated"))
			return
		}

		var req registrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("firstName, lastName, a valid email and password are required"))
			return
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/accounts/%s", a.ID))
		writeJSON(w, http.StatusCreated, toAccountResponse(a))
	}
}

func createAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("firstName, lastName, a valid email, password and role are required"))
			return
		}

		role, ok := auth.ParseRole(req.Role)
		if !ok {
			writeError(w, apperr.Validation("role must be one of ADMIN, CHIPPER, USER"))
			return
		}

		a, err := svc.CreateWithRole(r.Context(), RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		}, role)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/accounts/%s", a.ID))
		writeJSON(w, http.StatusCreated, toAccountResponse(a))
	}
}

func getAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper, auth.RoleUser)
		if err != nil {
			writeError(w, err)
			return
		}

		a, err := svc.GetByID(r.Context(), claims, chi.URLParam(r, "accountId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

func searchAccountsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}

		q := r.URL.Query()
		from, size, err := pagingParams(q.Get("from"), q.Get("size"))
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.Search(r.Context(), Filter{
			FirstName: q.Get("firstName"),
			LastName:  q.Get("lastName"),
			Email:     q.Get("email"),
			From:      from,
			Size:      size,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]accountResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAccountResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper, auth.RoleUser)
		if err != nil {
			writeError(w, err)
			return
		}

		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("invalid json"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			writeError(w, apperr.Validation("firstName, lastName, a valid email, password and role are required"))
			return
		}

		role, ok := auth.ParseRole(req.Role)
		if !ok {
			writeError(w, apperr.Validation("role must be one of ADMIN, CHIPPER, USER"))
			return
		}

		a, err := svc.Update(r.Context(), claims, chi.URLParam(r, "accountId"), UpdateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      role,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

func deleteAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireRole(r.Context(), auth.RoleAdmin, auth.RoleChipper, auth.RoleUser)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), claims, chi.URLParam(r, "accountId")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAccountResponse(a Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      string(a.Role),
	}
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
