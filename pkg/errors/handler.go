package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler turns engine errors into HTTP responses. Rejections keep their
// code so clients can tell which invariant refused the edit.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status, response := h.classify(err)
	response.Error = true
	response.RequestID = middleware.GetReqID(r.Context())

	h.log(r, err, status, response)
	h.sendJSON(w, status, response)
}

// classify maps the three error families the engine produces
func (h *ErrorHandler) classify(err error) (int, ErrorResponse) {
	var report *ValidationErrors
	if errors.As(err, &report) && report.HasErrors() {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Type:    string(ErrorTypeValidation),
			Message: "Diagram integrity check failed",
			Code:    firstCode(report),
			Details: map[string]interface{}{"issues": report.ByCode()},
		}
	}

	if appErr := GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		response := ErrorResponse{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		}
		if h.debug && appErr.StackTrace != "" {
			response.Details = withDetail(response.Details, "stack_trace", appErr.StackTrace)
		}
		return status, response
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusUnprocessableEntity
		errType := ErrorTypeRejected
		if domainErr.Type == DomainValidationError {
			status = http.StatusBadRequest
			errType = ErrorTypeValidation
		}
		return status, ErrorResponse{
			Type:    string(errType),
			Message: domainErr.Message,
			Code:    domainErr.Code,
			Details: domainErr.Details,
		}
	}

	response := ErrorResponse{
		Type:    string(ErrorTypeInternal),
		Message: "An internal error occurred",
	}
	if h.debug {
		response.Message = err.Error()
	}
	return http.StatusInternalServerError, response
}

// log writes server faults at error level and client mistakes at warn.
// Rejections are an ordinary outcome of editing and stay at info.
func (h *ErrorHandler) log(r *http.Request, err error, status int, response ErrorResponse) {
	fields := []zap.Field{
		zap.String("error_type", response.Type),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", response.RequestID),
	}
	if response.Code != "" {
		fields = append(fields, zap.String("error_code", response.Code))
	}

	switch {
	case status >= 500:
		h.logger.Error("Request failed", append(fields, zap.Error(err))...)
	case response.Type == string(ErrorTypeRejected):
		h.logger.Info("Edit rejected", fields...)
	default:
		h.logger.Warn(response.Message, fields...)
	}
}

// sendJSON sends a JSON response
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware recovers panics in later handlers and answers them as internal
// errors
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func firstCode(report *ValidationErrors) string {
	if codes := report.Codes(); len(codes) > 0 {
		return codes[0]
	}
	return ""
}

func withDetail(details map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out[key] = value
	return out
}
