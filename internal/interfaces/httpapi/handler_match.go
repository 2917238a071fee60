package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/usecase"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		TeamID:       req.TeamID,
		OpponentName: req.OpponentName,
		Competition:  req.Competition,
		IsHome:       req.IsHome,
		KickoffAt:    req.KickoffAt,
		Venue:        req.Venue,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) SetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLineup")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req setLineupRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.SetLineup(ctx, matchID, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "set lineup failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.transitionMatch(w, r, "httpapi.Handler.StartMatch", h.matchService.StartMatch)
}

func (h *Handler) HalfTime(w http.ResponseWriter, r *http.Request) {
	h.transitionMatch(w, r, "httpapi.Handler.HalfTime", h.matchService.HalfTime)
}

func (h *Handler) ResumeMatch(w http.ResponseWriter, r *http.Request) {
	h.transitionMatch(w, r, "httpapi.Handler.ResumeMatch", h.matchService.ResumeMatch)
}

func (h *Handler) PostponeMatch(w http.ResponseWriter, r *http.Request) {
	h.transitionMatch(w, r, "httpapi.Handler.PostponeMatch", h.matchService.PostponeMatch)
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	h.transitionMatch(w, r, "httpapi.Handler.CancelMatch", h.matchService.CancelMatch)
}

func (h *Handler) transitionMatch(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	apply func(ctx context.Context, matchID string) (match.Match, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := apply(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "match transition failed", "match_id", matchID, "operation", spanName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGoal")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req recordGoalRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	goal, err := h.matchService.RecordGoal(ctx, matchID, usecase.RecordGoalInput{
		PlayerID:       req.PlayerID,
		Minute:         req.Minute,
		Type:           req.Type,
		AssistPlayerID: req.AssistPlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record goal failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, goalToDTO(goal))
}

func (h *Handler) RecordCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordCard")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req recordCardRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	card, err := h.matchService.RecordCard(ctx, matchID, usecase.RecordCardInput{
		PlayerID: req.PlayerID,
		Minute:   req.Minute,
		Type:     req.Type,
		Reason:   req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record card failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, cardToDTO(card))
}

func (h *Handler) RecordSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSubstitution")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req recordSubstitutionRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	sub, err := h.matchService.RecordSubstitution(ctx, matchID, usecase.RecordSubstitutionInput{
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
		Minute:      req.Minute,
		Reason:      req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record substitution failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, substitutionToDTO(sub))
}

func (h *Handler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req completeMatchRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.CompleteMatch(ctx, matchID, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "complete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}
