package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-stats/internal/usecase"
)

func (h *Handler) GetPlayerAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAggregate")
	defer span.End()

	playerID := r.PathValue("playerID")
	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	aggregate, err := h.statsService.GetPlayerAggregate(ctx, playerID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get player aggregate failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerAggregateToDTO(aggregate))
}

func (h *Handler) GetPlayerConsistency(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerConsistency")
	defer span.End()

	playerID := r.PathValue("playerID")
	report, err := h.statsService.GetPlayerConsistency(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player consistency failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerConsistencyToDTO(report))
}

func (h *Handler) GetTeamAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamAggregate")
	defer span.End()

	teamID := r.PathValue("teamID")
	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	aggregate, err := h.statsService.GetTeamAggregate(ctx, teamID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get team aggregate failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamAggregateToDTO(aggregate))
}

func (h *Handler) GetRecentForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRecentForm")
	defer span.End()

	teamID := r.PathValue("teamID")
	n, err := parseOptionalInt(r.URL.Query().Get("n"), "n")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	form, err := h.statsService.GetRecentForm(ctx, teamID, n)
	if err != nil {
		h.logger.WarnContext(ctx, "get recent form failed", "team_id", teamID, "n", n, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recentFormToDTO(teamID, form))
}

func (h *Handler) GetCompetitionBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionBreakdown")
	defer span.End()

	teamID := r.PathValue("teamID")
	breakdown, err := h.statsService.GetCompetitionBreakdown(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition breakdown failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionBreakdownToDTO(breakdown))
}

// GetDashboard composes the dashboard for the repeated team_id params, or for
// every team when none are given.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	teamIDs := make([]string, 0)
	for _, raw := range r.URL.Query()["team_id"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				teamIDs = append(teamIDs, part)
			}
		}
	}

	dashboard, err := h.dashboardService.Get(ctx, usecase.DashboardScope{
		TeamIDs: teamIDs,
		All:     len(teamIDs) == 0,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "team_ids", teamIDs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}
