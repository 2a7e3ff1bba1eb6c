package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"weighttrend/internal/app"
)

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		goal, err := s.goals.Get(ctx, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"goal": goal})

	case http.MethodPut:
		var body struct {
			TargetValue float64 `json:"targetValue"`
			Unit        string  `json:"unit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		goal, err := s.goals.Set(ctx, user.ID, body.TargetValue, body.Unit)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"goal": goal})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePrediction serves the weeks-to-goal estimate. A missing target
// query parameter falls back to the stored goal.
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	opts := app.PredictionOptions{
		Unit:       q.Get("unit"),
		WindowDays: intQuery(r, "days", 0),
	}
	if raw := q.Get("target"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("target must be a number"))
			return
		}
		opts.Target = &v
	}

	res, err := s.prediction.Predict(r.Context(), userFromContext(r).ID, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
