package adherence

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"med-adherence-tracker/internal/middleware"
)

// Las rutas cuelgan de /medications pero se registran directo en el router
// raíz: chi prioriza los segmentos estáticos sobre {medicationID}.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/medications/today", todayScheduleHandler(svc))
	r.Get("/medications/stats", statsHandler(svc))
	r.Post("/medications/mark-taken", markHandler(svc, StatusTaken))
	r.Post("/medications/mark-missed", markHandler(svc, StatusMissed))
}

type markRequest struct {
	MedicationID  string `json:"medicationId"`
	ScheduledTime string `json:"scheduledTime"`
}

type scheduleEntryResponse struct {
	MedicationID   string  `json:"medicationId"`
	MedicationName string  `json:"medicationName"`
	Dosage         string  `json:"dosage"`
	ScheduledTime  string  `json:"scheduledTime"`
	Status         Status  `json:"status"`
	LogID          *string `json:"logId"` // null => sin log (upcoming)
}

type logResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	MedicationID  string    `json:"medicationId"`
	ScheduledDate string    `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type statsResponse struct {
	TotalMedications int                 `json:"totalMedications"`
	Today            todayStatsResponse  `json:"today"`
	Last7Days        windowStatsResponse `json:"last7Days"`
	DailyRates       []dailyRateResponse `json:"dailyRates"`
}

type todayStatsResponse struct {
	Taken    int `json:"taken"`
	Missed   int `json:"missed"`
	Upcoming int `json:"upcoming"`
}

type windowStatsResponse struct {
	TotalScheduled int `json:"totalScheduled"`
	TotalTaken     int `json:"totalTaken"`
	TotalMissed    int `json:"totalMissed"`
	TotalUpcoming  int `json:"totalUpcoming"`
	AdherenceRate  int `json:"adherenceRate"`
}

type dailyRateResponse struct {
	Date string `json:"date"`
	Rate int    `json:"rate"`
}

func todayScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.TodaySchedule(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toScheduleEntryResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func markHandler(svc *Service, status Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req markRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Mark(r.Context(), claims.UserID, req.MedicationID, req.ScheduledTime, status)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, "medicationId and scheduledTime (HH:MM) are required", http.StatusBadRequest)
			case ErrMedicationNotFound:
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toLogResponse(l))
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Stats(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toStatsResponse(st))
	}
}

func toScheduleEntryResponse(e ScheduleEntry) scheduleEntryResponse {
	out := scheduleEntryResponse{
		MedicationID:   e.MedicationID,
		MedicationName: e.MedicationName,
		Dosage:         e.Dosage,
		ScheduledTime:  e.ScheduledTime,
		Status:         e.Status,
	}
	if e.LogID != "" {
		id := e.LogID
		out.LogID = &id
	}
	return out
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		MedicationID:  l.MedicationID,
		ScheduledDate: dateKey(l.ScheduledDate),
		ScheduledTime: l.ScheduledTime,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toStatsResponse(st Stats) statsResponse {
	rates := make([]dailyRateResponse, 0, len(st.DailyRates))
	for _, d := range st.DailyRates {
		rates = append(rates, dailyRateResponse{Date: d.Date, Rate: d.Rate})
	}

	return statsResponse{
		TotalMedications: st.TotalMedications,
		Today: todayStatsResponse{
			Taken:    st.Today.Taken,
			Missed:   st.Today.Missed,
			Upcoming: st.Today.Upcoming,
		},
		Last7Days: windowStatsResponse{
			TotalScheduled: st.Last7Days.TotalScheduled,
			TotalTaken:     st.Last7Days.TotalTaken,
			TotalMissed:    st.Last7Days.TotalMissed,
			TotalUpcoming:  st.Last7Days.TotalUpcoming,
			AdherenceRate:  st.Last7Days.AdherenceRate,
		},
		DailyRates: rates,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
