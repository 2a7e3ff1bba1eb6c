package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"weighttrend/internal/domain"
)

// handleCaloriesToday reads, appends to and deletes from the calorie log.
// GET accepts ?day=YYYY-MM-DD to read another day.
func (s *Server) handleCaloriesToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		day := r.URL.Query().Get("day")
		if day == "" {
			day = localDayString(time.Now())
		}
		d, err := s.calories.Day(ctx, user.ID, day)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, d)

	case http.MethodPost:
		var body struct {
			Kind     domain.CalorieKind `json:"kind"`
			Name     string             `json:"name"`
			Calories int                `json:"calories"`
			Protein  int                `json:"protein"`
			Carbs    int                `json:"carbs"`
			Fat      int                `json:"fat"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		d, err := s.calories.AddEntry(ctx, user.ID, domain.CalorieEntry{
			Kind:     body.Kind,
			Name:     body.Name,
			Calories: body.Calories,
			Protein:  body.Protein,
			Carbs:    body.Carbs,
			Fat:      body.Fat,
		})
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, d)

	case http.MethodDelete:
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("id must be a positive integer"))
			return
		}
		deleted, d, err := s.calories.DeleteEntry(ctx, user.ID, id)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "day": d})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCalorieGoal reads or sets the daily calorie goal. PUT takes either
// an explicit dailyGoal or heightCm and age to derive it from the latest
// weight and the target weight.
func (s *Server) handleCalorieGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		kcal, err := s.calories.GetDailyGoal(ctx, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"dailyGoal": kcal})

	case http.MethodPut:
		var body struct {
			DailyGoal int     `json:"dailyGoal"`
			HeightCm  float64 `json:"heightCm"`
			Age       float64 `json:"age"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		kcal := body.DailyGoal
		var err error
		if kcal != 0 {
			err = s.calories.SetDailyGoal(ctx, user.ID, kcal)
		} else {
			kcal, err = s.calories.DeriveDailyGoal(ctx, user.ID, body.HeightCm, body.Age)
		}
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"dailyGoal": kcal})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
