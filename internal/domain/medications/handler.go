package medications

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"med-adherence-tracker/internal/middleware"
)

// AdherenceLogPurger evita importar el paquete adherence (rompe ciclos).
// Borra todos los logs del medicamento del usuario.
type AdherenceLogPurger interface {
	PurgeMedication(ctx context.Context, userID, medicationID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, logs AdherenceLogPurger) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Get("/", listMedicationsHandler(svc))
		mr.Post("/", createMedicationHandler(svc))
		mr.Put("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc, logs))
	})
}

type medicationRequest struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Schedule  []string `json:"schedule"`
	Notes     string   `json:"notes"`
	Reminders *bool    `json:"reminders"`
}

type medicationResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"ownerUserId"`
	Name        string    `json:"name"`
	Dosage      string    `json:"dosage"`
	Schedule    []string  `json:"schedule"`
	Notes       string    `json:"notes"`
	Reminders   bool      `json:"reminders"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Schedule:  req.Schedule,
			Notes:     req.Notes,
			Reminders: req.Reminders,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, "name and a valid HH:MM schedule are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		m, err := svc.Update(r.Context(), claims.UserID, medicationID, CreateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Schedule:  req.Schedule,
			Notes:     req.Notes,
			Reminders: req.Reminders,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, "name and a valid HH:MM schedule are required", http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service, logs AdherenceLogPurger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		if err := svc.Delete(r.Context(), claims.UserID, medicationID); err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// Cascada: sin el medicamento, sus logs no significan nada.
		if err := logs.PurgeMedication(r.Context(), claims.UserID, medicationID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "medication deleted"})
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:          m.ID,
		OwnerUserID: m.OwnerUserID,
		Name:        m.Name,
		Dosage:      m.Dosage,
		Schedule:    m.Schedule,
		Notes:       m.Notes,
		Reminders:   m.Reminders,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
