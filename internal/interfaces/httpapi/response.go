package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "openfront-clanstats"

	upstreamAuthHint = "OpenFront rejected the request credentials: check OPENFRONT_API_KEY"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Status  string       `json:"status"`
	Errors  []errorCause `json:"errors,omitempty"`
}

type errorCause struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass is how one family of usecase errors is presented.
type errorClass struct {
	code   int
	reason string
	status string
	// hint replaces err.Error() as the top-level message when set
	hint string
}

var internalErrorClass = errorClass{code: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

// errorClasses is checked in order; the first sentinel matched wins.
var errorClasses = []struct {
	target error
	class  errorClass
}{
	{usecase.ErrInvalidInput, errorClass{code: http.StatusBadRequest, reason: "invalidInput", status: "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, errorClass{code: http.StatusNotFound, reason: "notFound", status: "NOT_FOUND"}},
	{usecase.ErrUnauthorized, errorClass{code: http.StatusUnauthorized, reason: "unauthorized", status: "UNAUTHENTICATED"}},
	{usecase.ErrUpstreamAuth, errorClass{code: http.StatusServiceUnavailable, reason: "upstreamAuth", status: "UNAVAILABLE", hint: upstreamAuthHint}},
	{usecase.ErrDependencyUnavailable, errorClass{code: http.StatusServiceUnavailable, reason: "dependencyUnavailable", status: "UNAVAILABLE"}},
	{usecase.ErrTransientFetch, errorClass{code: http.StatusServiceUnavailable, reason: "dependencyUnavailable", status: "UNAVAILABLE"}},
}

func classifyError(err error) errorClass {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c.class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(_ context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := class.hint
	if message == "" {
		message = err.Error()
	}
	writeErrorBody(w, class, message, err.Error())
}

// writeInternalError hides the cause; used after a recovered panic.
func writeInternalError(w http.ResponseWriter) {
	const msg = "internal server error"
	writeErrorBody(w, internalErrorClass, msg, msg)
}

func writeErrorBody(w http.ResponseWriter, class errorClass, message, cause string) {
	writeJSON(w, class.code, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.code,
			Message: message,
			Status:  class.status,
			Errors:  []errorCause{{Domain: errorDomain, Reason: class.reason, Message: cause}},
		},
	})
}
