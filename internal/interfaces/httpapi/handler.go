package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
	"github.com/riskibarqy/fantasy-insights/internal/usecase"
)

type InsightQueries interface {
	DiscoverLeagues(ctx context.Context, in usecase.DiscoverLeaguesInput) (usecase.DiscoverLeaguesResult, error)
	AnalyzeRosters(ctx context.Context, in usecase.AnalyzeRostersInput) (usecase.AnalyzeRostersResult, error)
	MatchupPriorities(ctx context.Context, in usecase.MatchupPrioritiesInput) (usecase.MatchupPrioritiesResult, error)
	WaiverTargets(ctx context.Context, in usecase.WaiverTargetsInput) (usecase.WaiverTargetsResult, error)
}

type CacheAdmin interface {
	Status(ctx context.Context) (usecase.CacheStatus, error)
	Refresh(ctx context.Context) (usecase.CacheStatus, error)
	Clear(ctx context.Context) (usecase.CacheStatus, error)
}

type Handler struct {
	insights InsightQueries
	cache    CacheAdmin
	logger   *logging.Logger
}

func NewHandler(insights InsightQueries, cache CacheAdmin, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		insights: insights,
		cache:    cache,
		logger:   logger.Named("httpapi"),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) DiscoverLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "discover_leagues")
	defer span.End()

	in := usecase.DiscoverLeaguesInput{
		UserID: r.PathValue("userID"),
		Season: r.URL.Query().Get("season"),
	}
	out, err := h.insights.DiscoverLeagues(ctx, in)
	if err != nil {
		h.fail(ctx, w, "discover leagues failed", in.UserID, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AnalyzeRosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "analyze_rosters")
	defer span.End()

	in := usecase.AnalyzeRostersInput{
		UserID: r.PathValue("userID"),
		Season: r.URL.Query().Get("season"),
	}
	out, err := h.insights.AnalyzeRosters(ctx, in)
	if err != nil {
		h.fail(ctx, w, "analyze rosters failed", in.UserID, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) MatchupPriorities(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "matchup_priorities")
	defer span.End()

	query := r.URL.Query()
	week, err := queryInt(query.Get("week"), "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	in := usecase.MatchupPrioritiesInput{
		UserID: r.PathValue("userID"),
		Season: query.Get("season"),
		Week:   week,
	}
	out, err := h.insights.MatchupPriorities(ctx, in)
	if err != nil {
		h.fail(ctx, w, "matchup priorities failed", in.UserID, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) WaiverTargets(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "waiver_targets")
	defer span.End()

	query := r.URL.Query()
	limit, err := queryInt(query.Get("limit"), "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	in := usecase.WaiverTargetsInput{
		UserID:   r.PathValue("userID"),
		Season:   query.Get("season"),
		Position: query.Get("position"),
		Limit:    limit,
	}
	out, err := h.insights.WaiverTargets(ctx, in)
	if err != nil {
		h.fail(ctx, w, "waiver targets failed", in.UserID, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "cache_status")
	defer span.End()

	out, err := h.cache.Status(ctx)
	if err != nil {
		h.fail(ctx, w, "cache status failed", "", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "refresh_cache")
	defer span.End()

	out, err := h.cache.Refresh(ctx)
	if err != nil {
		h.fail(ctx, w, "cache refresh failed", "", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "clear_cache")
	defer span.End()

	out, err := h.cache.Clear(ctx)
	if err != nil {
		h.fail(ctx, w, "cache clear failed", "", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, userID string, err error) {
	mapped := mapError(err)
	markFailed(ctx, mapped, err)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "user_id", userID, "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "user_id", userID, "error", err)
	}
	writeError(ctx, w, err)
}

// queryInt treats an absent parameter as zero so the usecase applies defaults.
func queryInt(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}
