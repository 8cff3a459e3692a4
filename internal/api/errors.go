package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/pricing"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Product    string    `json:"product,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type suggestionKey int

const (
	kindEmpty suggestionKey = iota
	kindNotFound
	kindUnavailable
	kindInvalid
	kindInternal
	kindRateLimited
)

var suggestions = map[suggestionKey]string{
	kindEmpty:       "include the product name, e.g. \"ligation clip\"; sizes, units and pack words are ignored",
	kindNotFound:    "check the spelling or try a broader product name; GET /api/v1/catalog lists known products",
	kindUnavailable: "the historical dataset could not be read; check GET /health and retry",
	kindInvalid:     "quantity must be a positive integer",
	kindInternal:    "retry the request; quote the X-Request-Id response header if it keeps failing",
	kindRateLimited: "slow down and retry after a second",
}

// statusFor maps an engine failure class to an HTTP status and suggestion.
func statusFor(kind pricing.Kind) (int, suggestionKey) {
	switch kind {
	case pricing.KindNotFound:
		return http.StatusNotFound, kindNotFound
	case pricing.KindUnavailable:
		return http.StatusServiceUnavailable, kindUnavailable
	case pricing.KindInvalid:
		return http.StatusUnprocessableEntity, kindInvalid
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

func writeEngineError(w http.ResponseWriter, err error, product string, now time.Time) {
	kind := pricing.Classify(err)
	status, sk := statusFor(kind)

	msg := err.Error()
	if kind == pricing.KindInternal {
		zap.L().Error("api: pricing failed", zap.String("product", product), zap.Error(err))
		msg = "internal pricing error"
	}
	writeError(w, status, errorResponse{
		Error:      kind.String(),
		Message:    msg,
		Product:    product,
		Suggestion: suggestions[sk],
		Timestamp:  now,
	})
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}
