package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "tournament-sync"
	internalMessage  = "internal server error"

	// syncRetryAfter is a hint for callers that hit a running pass.
	syncRetryAfter = "30"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorRule struct {
	targets    []error
	httpStatus int
	reason     string
	status     string
}

// errorRules is checked in order; the first matching sentinel wins.
var errorRules = []errorRule{
	{targets: []error{usecase.ErrInvalidInput}, httpStatus: http.StatusBadRequest, reason: "invalidInput", status: "INVALID_ARGUMENT"},
	{targets: []error{usecase.ErrNotFound}, httpStatus: http.StatusNotFound, reason: "notFound", status: "NOT_FOUND"},
	{targets: []error{usecase.ErrUnauthorized}, httpStatus: http.StatusUnauthorized, reason: "unauthorized", status: "UNAUTHENTICATED"},
	{targets: []error{usecase.ErrSyncInProgress}, httpStatus: http.StatusConflict, reason: "syncInProgress", status: "ABORTED"},
	{targets: []error{usecase.ErrConfiguration, usecase.ErrKeyNotConfigured}, httpStatus: http.StatusPreconditionFailed, reason: "notConfigured", status: "FAILED_PRECONDITION"},
	{targets: []error{usecase.ErrDependencyUnavailable}, httpStatus: http.StatusServiceUnavailable, reason: "dependencyUnavailable", status: "UNAVAILABLE"},
}

var internalRule = errorRule{httpStatus: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

func mapError(err error) errorRule {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				return rule
			}
		}
	}
	return internalRule
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError renders err in the error envelope. Unmapped errors become a bare
// 500 because storage errors may carry query text.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	rule := mapError(err)
	message := internalMessage
	if rule.httpStatus != http.StatusInternalServerError {
		message = err.Error()
	}
	if rule.httpStatus == http.StatusConflict {
		w.Header().Set("Retry-After", syncRetryAfter)
	}
	writeErrorBody(w, rule, message)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorBody(w, internalRule, internalMessage)
}

func writeErrorBody(w http.ResponseWriter, rule errorRule, message string) {
	writeJSON(w, rule.httpStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    rule.httpStatus,
			Message: message,
			Status:  rule.status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: rule.reason, Message: message}},
		},
	})
}
