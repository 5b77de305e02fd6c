package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"advohub/internal/directory/models"
	"advohub/internal/origins"
	"advohub/pkg/platform/sentinel"
)

var (
	// ErrFetchFailure marks an origin whose list call failed or answered success=false.
	ErrFetchFailure = errors.New("origin fetch failed")
	// ErrShapeMismatch marks an origin whose list data is not in a shape we can read.
	ErrShapeMismatch = fmt.Errorf("origin response shape mismatch: %w", sentinel.ErrMalformed)
)

// wrapperKeys are the object keys an origin may nest its list under. Only the
// admin backend does so today.
var wrapperKeys = map[models.Origin][]string{
	models.OriginAdmin:     {"admins"},
	models.OriginCommunity: {"communityMembers", "members"},
	models.OriginVolunteer: {"volunteers"},
	models.OriginContact:   {"contacts"},
}

// FetchOutcome is the settled result of listing one origin. Response is the
// first page; More holds the following pages in order.
type FetchOutcome struct {
	Response  *origins.ListResponse
	More      []*origins.ListResponse
	Err       error
	Duration  time.Duration
	Truncated bool
}

// OriginReport describes what one origin contributed to a refresh.
type OriginReport struct {
	Origin    models.Origin `json:"origin"`
	Fetched   bool          `json:"fetched"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Degraded  bool          `json:"degraded"`
	Truncated bool          `json:"truncated,omitempty"`
}

// Aggregate normalizes and concatenates the outcomes in origin priority order.
// Failed or malformed origins contribute nothing and are logged.
func Aggregate(outcomes map[models.Origin]FetchOutcome, logger *slog.Logger) []models.UnifiedRecord {
	records, _ := AggregateReport(outcomes, logger)
	return records
}

// AggregateReport is Aggregate plus a per-origin report, in origin order.
func AggregateReport(outcomes map[models.Origin]FetchOutcome, logger *slog.Logger) ([]models.UnifiedRecord, []OriginReport) {
	records := make([]models.UnifiedRecord, 0)
	reports := make([]OriginReport, 0, len(models.OriginOrder))

	for _, origin := range models.OriginOrder {
		outcome, ok := outcomes[origin]
		if !ok {
			reports = append(reports, OriginReport{Origin: origin})
			continue
		}

		natives, err := extractRecords(origin, outcome)
		if err != nil {
			if logger != nil {
				logger.Warn("origin contributed no records",
					"origin", origin,
					"reason", failureReason(err),
					"error", err,
				)
			}
			reports = append(reports, OriginReport{
				Origin: origin,
				Error:  err.Error(),
				Reason: failureReason(err),
			})
			continue
		}

		normalized := Normalize(natives, origin)
		records = append(records, normalized...)
		if outcome.Truncated && logger != nil {
			logger.Warn("origin list truncated",
				"origin", origin,
				"pages", 1+len(outcome.More),
				"count", len(normalized),
			)
		}
		reports = append(reports, OriginReport{
			Origin:    origin,
			Fetched:   true,
			Count:     len(normalized),
			Truncated: outcome.Truncated,
		})
	}
	return records, reports
}

// extractRecords concatenates every page of an outcome. One bad page fails
// the whole origin so a refresh never installs a partial origin.
func extractRecords(origin models.Origin, outcome FetchOutcome) ([]models.NativeRecord, error) {
	if outcome.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, outcome.Err)
	}
	natives, err := extractPage(origin, outcome.Response)
	if err != nil {
		return nil, err
	}
	for i, page := range outcome.More {
		more, err := extractPage(origin, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+2, err)
		}
		natives = append(natives, more...)
	}
	return natives, nil
}

func extractPage(origin models.Origin, resp *origins.ListResponse) ([]models.NativeRecord, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrShapeMismatch)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "success=false"
		}
		return nil, fmt.Errorf("%w: %s", ErrFetchFailure, msg)
	}

	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: data is missing", ErrShapeMismatch)
	}

	switch data[0] {
	case '[':
		return decodeArray(data)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
		for _, key := range wrapperKeys[origin] {
			if inner, ok := wrapper[key]; ok {
				inner = bytes.TrimSpace(inner)
				if len(inner) == 0 || inner[0] != '[' {
					return nil, fmt.Errorf("%w: data.%s is not an array", ErrShapeMismatch, key)
				}
				return decodeArray(inner)
			}
		}
		return nil, fmt.Errorf("%w: data object has no %v array", ErrShapeMismatch, wrapperKeys[origin])
	default:
		return nil, fmt.Errorf("%w: data is neither an array nor an object", ErrShapeMismatch)
	}
}

func decodeArray(data []byte) ([]models.NativeRecord, error) {
	var natives []models.NativeRecord
	if err := json.Unmarshal(data, &natives); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return natives, nil
}

// failureReason is the metric and report label for an origin failure.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrFetchFailure):
		var oe *origins.OriginError
		if errors.As(err, &oe) {
			return string(oe.Category)
		}
		return "fetch_failure"
	default:
		return "unknown"
	}
}
