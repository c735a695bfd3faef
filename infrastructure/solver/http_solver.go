// Package solver provides adapters for the external electrical network solver.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/domain/core/aggregates"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

const serviceName = "solver"

// maxResponseBytes bounds the solver response we are willing to decode
const maxResponseBytes = 64 << 20

// solveRequest is the wire payload sent to the solver
type solveRequest struct {
	Sheets []aggregates.SheetState `json:"sheets"`
}

// solveResponse is the wire payload returned by the solver
type solveResponse struct {
	Sheets []aggregates.SheetState `json:"sheets"`
	Error  string                  `json:"error,omitempty"`
}

// HTTPSolver calls a remote solver that accepts the full sheet list as JSON
// and answers with the same sheets annotated with connector currents.
type HTTPSolver struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSolver creates a solver client. The timeout bounds a single HTTP
// exchange only.
func NewHTTPSolver(url string, timeout time.Duration, logger *zap.Logger) *HTTPSolver {
	return &HTTPSolver{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Solve posts the sheets and decodes the annotated result
func (s *HTTPSolver) Solve(ctx context.Context, sheets []aggregates.SheetState) ([]aggregates.SheetState, error) {
	body, err := json.Marshal(solveRequest{Sheets: sheets})
	if err != nil {
		return nil, fmt.Errorf("failed to encode solve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build solve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError(serviceName, err)
	}
	defer resp.Body.Close()

	var out solveResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		s.logger.Warn("Solver returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return nil, apperrors.NewExternalError(serviceName, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if decodeErr != nil {
		return nil, apperrors.NewExternalError(serviceName, fmt.Errorf("failed to decode solve response: %w", decodeErr))
	}
	if len(out.Sheets) != len(sheets) {
		return nil, apperrors.NewExternalError(serviceName,
			fmt.Errorf("solver returned %d sheets, expected %d", len(out.Sheets), len(sheets)))
	}

	return out.Sheets, nil
}

// PassthroughSolver returns its input unchanged. It stands in when no solver
// endpoint is configured so the engine still runs its recalculation cycle.
type PassthroughSolver struct{}

// NewPassthroughSolver creates a passthrough solver
func NewPassthroughSolver() *PassthroughSolver {
	return &PassthroughSolver{}
}

// Solve returns detached copies of the input sheets
func (PassthroughSolver) Solve(_ context.Context, sheets []aggregates.SheetState) ([]aggregates.SheetState, error) {
	out := make([]aggregates.SheetState, len(sheets))
	for i, sheet := range sheets {
		out[i] = sheet.Clone()
	}
	return out, nil
}
