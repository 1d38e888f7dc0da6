// Package service provides business logic for the application.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/textgate/textgate/internal/downstream"
	"github.com/textgate/textgate/internal/metrics"
	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/repository"
)

// Service errors.
var (
	// ErrAuditUnavailable means the request could not be anchored in the
	// audit log; processing never reaches the downstream service.
	ErrAuditUnavailable = errors.New("audit log unavailable")
	// ErrUnknownOperation means the requested operation kind is not supported.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnknownUser means the request named a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// ValidationError reports required fields missing from an operation request.
// Requests failing validation never touch the audit log.
type ValidationError struct {
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Missing) == 1 {
		return "missing parameter " + e.Missing[0]
	}
	return "missing parameters " + strings.Join(e.Missing, ", ")
}

// AuditStore is the write side of the audit trail the gateway depends on.
type AuditStore interface {
	RecordRequest(ctx context.Context, userID string, kind model.OperationKind, inputText string) (string, error)
	RecordResponse(ctx context.Context, requestID string, payload json.RawMessage) error
}

// Invoker dispatches one payload to the downstream service for a kind.
type Invoker interface {
	Invoke(ctx context.Context, kind model.OperationKind, payload any) (json.RawMessage, error)
}

// ProcessInput carries the validated-to-be fields of one operation request.
// Fields not used by the target operation are ignored.
type ProcessInput struct {
	UserID     string
	Text       string
	TargetLang string
	Count      int
	Style      string
}

// Success body shapes, one per operation kind.
type (
	// TranslationResult is the success body of a translation operation.
	TranslationResult struct {
		Translated string `json:"translated"`
	}

	// SummaryResult is the success body of a summary operation.
	SummaryResult struct {
		Original string `json:"original,omitempty"`
		Summary  string `json:"summary"`
	}

	// KeywordsResult is the success body of a keywords operation.
	KeywordsResult struct {
		Original string   `json:"original,omitempty"`
		Keywords []string `json:"keywords"`
	}

	// EditingResult is the success body of an editing operation.
	EditingResult struct {
		Edited string `json:"edited"`
	}

	// AnalyticsResult is the success body of an analytics operation.
	AnalyticsResult struct {
		Sentiment     string   `json:"sentiment"`
		WordCount     int      `json:"wordCount"`
		SentenceCount int      `json:"sentenceCount"`
		MainTopics    []string `json:"mainTopics"`
	}
)

// operationSpec drives the shared gateway flow for one operation kind:
// which fields are required, what payload the downstream service receives,
// and how its success body is normalized for the caller.
type operationSpec struct {
	missing func(in ProcessInput) []string
	payload func(in ProcessInput) any
	shape   func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error)
}

var operationSpecs = map[model.OperationKind]operationSpec{
	model.OperationTranslation: {
		missing: func(in ProcessInput) []string {
			return missingFields(in, field{"targetLang", in.TargetLang != ""})
		},
		payload: func(in ProcessInput) any {
			return struct {
				Text       string `json:"text"`
				TargetLang string `json:"targetLang"`
			}{in.Text, in.TargetLang}
		},
		shape: func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error) {
			var result TranslationResult
			if err := json.Unmarshal(raw, &result); err != nil || result.Translated == "" {
				return nil, errUnexpectedBody(model.OperationTranslation)
			}
			return json.Marshal(result)
		},
	},
	model.OperationSummary: {
		missing: func(in ProcessInput) []string {
			return missingFields(in)
		},
		payload: func(in ProcessInput) any {
			return struct {
				Text string `json:"text"`
			}{in.Text}
		},
		shape: func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error) {
			var result SummaryResult
			if err := json.Unmarshal(raw, &result); err != nil || result.Summary == "" {
				return nil, errUnexpectedBody(model.OperationSummary)
			}
			if result.Original == "" {
				result.Original = in.Text
			}
			return json.Marshal(result)
		},
	},
	model.OperationKeywords: {
		missing: func(in ProcessInput) []string {
			return missingFields(in, field{"count", in.Count > 0})
		},
		payload: func(in ProcessInput) any {
			return struct {
				Text  string `json:"text"`
				Count int    `json:"count"`
			}{in.Text, in.Count}
		},
		shape: func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error) {
			var result KeywordsResult
			if err := json.Unmarshal(raw, &result); err != nil || len(result.Keywords) == 0 {
				return nil, errUnexpectedBody(model.OperationKeywords)
			}
			if result.Original == "" {
				result.Original = in.Text
			}
			return json.Marshal(result)
		},
	},
	model.OperationEditing: {
		missing: func(in ProcessInput) []string {
			// style is optional; the service falls back to its default style.
			return missingFields(in)
		},
		payload: func(in ProcessInput) any {
			return struct {
				Text  string `json:"text"`
				Style string `json:"style,omitempty"`
			}{in.Text, in.Style}
		},
		shape: func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error) {
			var result EditingResult
			if err := json.Unmarshal(raw, &result); err != nil || result.Edited == "" {
				return nil, errUnexpectedBody(model.OperationEditing)
			}
			return json.Marshal(result)
		},
	},
	model.OperationAnalytics: {
		missing: func(in ProcessInput) []string {
			return missingFields(in)
		},
		payload: func(in ProcessInput) any {
			return struct {
				Text string `json:"text"`
			}{in.Text}
		},
		shape: func(in ProcessInput, raw json.RawMessage) (json.RawMessage, error) {
			var result AnalyticsResult
			if err := json.Unmarshal(raw, &result); err != nil || result.Sentiment == "" {
				return nil, errUnexpectedBody(model.OperationAnalytics)
			}
			return json.Marshal(result)
		},
	},
}

// field pairs a payload field name with whether it is present.
type field struct {
	name    string
	present bool
}

// missingFields checks the fields common to every operation plus any extras.
func missingFields(in ProcessInput, extras ...field) []string {
	fields := []field{
		{"user_id", in.UserID != ""},
		{"text", in.Text != ""},
	}
	fields = append(fields, extras...)

	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func errUnexpectedBody(kind model.OperationKind) error {
	return fmt.Errorf("%s service returned an unexpected body: %w", kind, downstream.ErrDownstream)
}

// GatewayService runs the audited request flow shared by all five operation
// kinds: validate, anchor in the request log, dispatch downstream, record
// the outcome, and shape the caller-facing body.
type GatewayService struct {
	store   AuditStore
	client  Invoker
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewGatewayService creates a new GatewayService.
func NewGatewayService(store AuditStore, client Invoker, logger *slog.Logger, recorder metrics.Recorder) *GatewayService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &GatewayService{
		store:   store,
		client:  client,
		logger:  logger,
		metrics: recorder,
	}
}

// Process handles one operation request end to end and returns the
// normalized success body.
//
// Failure classes:
//   - *ValidationError: a required field is missing; no audit row is written.
//   - ErrAuditUnavailable: the request row could not be committed; the
//     downstream service is never called.
//   - downstream.ErrUnavailable / ErrDownstream: the downstream call failed;
//     the failure is recorded as the request's response before returning.
//
// A failure to record the response after a successful downstream call is
// logged and counted but never surfaced: the caller still gets the result.
func (s *GatewayService) Process(ctx context.Context, kind model.OperationKind, in ProcessInput) (json.RawMessage, error) {
	spec, ok := operationSpecs[kind]
	if !ok {
		return nil, ErrUnknownOperation
	}

	s.metrics.IncOperationRequest(kind.String())

	if missing := spec.missing(in); len(missing) > 0 {
		s.metrics.IncValidationRejected(kind.String())
		return nil, &ValidationError{Missing: missing}
	}

	requestID, err := s.store.RecordRequest(ctx, in.UserID, kind, in.Text)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncValidationRejected(kind.String())
			return nil, ErrUnknownUser
		}
		s.metrics.IncAuditWriteFailure("request")
		s.logger.Error("failed to record request",
			"operation", kind.String(),
			"user_id", in.UserID,
			"error", err,
		)
		return nil, ErrAuditUnavailable
	}

	start := time.Now()
	raw, err := s.client.Invoke(ctx, kind, spec.payload(in))
	s.metrics.ObserveDownstreamDuration(kind.String(), time.Since(start))

	if err == nil {
		var normalized json.RawMessage
		normalized, err = spec.shape(in, raw)
		if err == nil {
			s.recordOutcome(ctx, kind, requestID, raw)
			s.metrics.IncOperationCompleted(kind.String())
			return normalized, nil
		}
	}

	// Downstream failed (or violated its contract): link the failure to the
	// already-committed request row, then surface a service error.
	s.metrics.IncOperationFailed(kind.String())
	s.logger.Error("downstream call failed",
		"operation", kind.String(),
		"user_id", in.UserID,
		"request_id", requestID,
		"error", err,
	)
	s.recordOutcome(ctx, kind, requestID, errorPayload(err))

	return nil, err
}

// recordOutcome writes the response row for requestID. Recording is
// best-effort once the downstream outcome is known: a persistence failure
// here is observable only through logs and metrics.
func (s *GatewayService) recordOutcome(ctx context.Context, kind model.OperationKind, requestID string, payload json.RawMessage) {
	if err := s.store.RecordResponse(ctx, requestID, payload); err != nil {
		s.metrics.IncAuditWriteFailure("response")
		s.logger.Error("failed to record response",
			"operation", kind.String(),
			"request_id", requestID,
			"error", err,
		)
	}
}

// errorPayload builds the {"error": message} body recorded for a failed call.
func errorPayload(err error) json.RawMessage {
	payload, merr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if merr != nil {
		return json.RawMessage(`{"error":"downstream call failed"}`)
	}
	return payload
}
