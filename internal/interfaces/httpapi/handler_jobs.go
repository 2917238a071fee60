package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/squad-stats/internal/usecase"
)

func (h *Handler) RunReconcileJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcileJob")
	defer span.End()

	if h.reconcileService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconcile service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req reconcileJobRequest
	if err := h.decodeAndValidate(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reconcileService.Reconcile(ctx, usecase.ReconcileInput{
		TeamIDs:    req.TeamIDs,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run reconcile job failed", "team_ids", req.TeamIDs, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "reconcile job finished",
		"team_count", result.TeamCount,
		"failed_count", result.FailedCount,
		"discrepancy_count", result.DiscrepancyCount,
		"dry_run", result.DryRun,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}
