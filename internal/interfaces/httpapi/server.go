package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-insights/internal/platform/id"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerInsightRoutes(mux, handler)
	registerCacheRoutes(mux, handler)

	return RequestTracing(RequestID(id.NewRandomGenerator(0), RequestLogging(logger, recoverPanic(logger, mux))))
}
