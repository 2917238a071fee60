package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/riskibarqy/squad-stats/internal/usecase"
)

const dateLayout = "2006-01-02"

type Handler struct {
	matchService     *usecase.MatchEventService
	statsService     *usecase.StatisticsService
	dashboardService *usecase.DashboardService
	reconcileService *usecase.ReconcileService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchEventService,
	statsService *usecase.StatisticsService,
	dashboardService *usecase.DashboardService,
	reconcileService *usecase.ReconcileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:     matchService,
		statsService:     statsService,
		dashboardService: dashboardService,
		reconcileService: reconcileService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into out. An empty body is accepted
// only when allowEmpty is set.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, out any, allowEmpty bool) error {
	if allowEmpty && (r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0) {
		return h.validateRequest(ctx, out)
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}

	return h.validateRequest(ctx, out)
}

// parseListFilter reads competition, from and to. Dates accept RFC3339 or
// YYYY-MM-DD; a bare date for "to" covers the whole day.
func parseListFilter(values url.Values) (match.ListFilter, error) {
	filter := match.ListFilter{
		Competition: strings.TrimSpace(values.Get("competition")),
	}

	from, err := parseTimeParam(values.Get("from"), false)
	if err != nil {
		return match.ListFilter{}, fmt.Errorf("%w: from: %v", usecase.ErrInvalidInput, err)
	}
	to, err := parseTimeParam(values.Get("to"), true)
	if err != nil {
		return match.ListFilter{}, fmt.Errorf("%w: to: %v", usecase.ErrInvalidInput, err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return match.ListFilter{}, fmt.Errorf("%w: to must not be before from", usecase.ErrInvalidInput)
	}
	filter.From = from
	filter.To = to

	return filter, nil
}

func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value.UTC(), nil
	}
	value, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or %s, got %q", dateLayout, raw)
	}
	if endOfDay {
		value = value.Add(24*time.Hour - time.Nanosecond)
	}
	return value.UTC(), nil
}

func parseOptionalInt(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
