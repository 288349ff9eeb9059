package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leadworks/leadctl/pkg/alert"
	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/scoring"
)

const defaultListLimit = 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, data.ErrReportNotFound):
		status = http.StatusNotFound
	case errors.Is(err, scoring.ErrValidation), errors.Is(err, scoring.ErrZeroTotal):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func summaryHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s, err := data.GetSummary(cfg.DB)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func channelsHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stats, err := data.GetChannelStats(cfg.DB)
		if err != nil {
			writeError(w, err)
			return
		}
		results := scoring.ChannelPriority(stats)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Priority > results[j].Priority
		})
		writeJSON(w, http.StatusOK, results)
	}
}

// weightsHandler scores the stored channels. Query params min_weight,
// exclude (comma separated), and boost (comma separated name=factor
// pairs) override the config, archive=true archives the run.
func weightsHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := cfg.Conf.Scoring.WeightOptions()

		q := r.URL.Query()
		if v := q.Get("min_weight"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid min_weight"})
				return
			}
			opts.MinWeight = n
		}
		if v := q.Get("exclude"); v != "" {
			opts.Exclude = strings.Split(v, ",")
		}
		if v := q.Get("boost"); v != "" {
			boosts, err := parseBoosts(strings.Split(v, ","))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			opts.Boosts = boosts
		}

		rep, err := runWeights(cfg, opts, "", q.Get("archive") == "true")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func topLeadsHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads, err := data.ListLeads(cfg.DB)
		if err != nil {
			writeError(w, err)
			return
		}

		scored := scoreLeads(leads, cfg.Conf.Scoring.LeadScoreTables(), time.Now().UTC())
		if limit := queryLimit(r); limit < len(scored) {
			scored = scored[:limit]
		}
		writeJSON(w, http.StatusOK, scored)
	}
}

func alertsHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		leads, err := data.ListLeads(cfg.DB)
		if err != nil {
			writeError(w, err)
			return
		}
		res := alert.Evaluate(leads, cfg.Conf.Alerts, time.Now().UTC())
		writeJSON(w, http.StatusOK, res)
	}
}

func reportsHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.ListWeightReports(cfg.DB, queryLimit(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func reportHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := data.GetWeightReport(cfg.DB, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultListLimit
}
