package service

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Shift is one worked shift in an employee's history.
type Shift struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Status          string     `json:"status"`
	DurationMinutes int        `json:"durationMinutes"`
}

// Shift status values as reported by the backend.
const (
	ShiftStatusActive    = "active"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// ShiftQuery filters the shift history. Zero values are omitted from the
// request; dates use the YYYY-MM-DD form the backend expects.
type ShiftQuery struct {
	Limit     int
	Offset    int
	StartDate string
	EndDate   string
	Status    string
}

const dateLayout = "2006-01-02"

func (q ShiftQuery) validate() error {
	if q.StartDate != "" {
		if _, err := time.Parse(dateLayout, q.StartDate); err != nil {
			return apperrors.ValidationField("startDate", "must be YYYY-MM-DD")
		}
	}
	if q.EndDate != "" {
		if _, err := time.Parse(dateLayout, q.EndDate); err != nil {
			return apperrors.ValidationField("endDate", "must be YYYY-MM-DD")
		}
	}
	return nil
}

func (q ShiftQuery) path() string {
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		q.Limit = DefaultPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return "/shifts/history?" + v.Encode()
}

// ShiftHistory is the payload of GET /shifts/history.
type ShiftHistory struct {
	Shifts []Shift `json:"shifts"`
	Total  int     `json:"total"`
}

// ShiftServiceOptions groups dependencies for ShiftService.
type ShiftServiceOptions struct {
	Client ports.APIClient
	Logger *slog.Logger
}

// ShiftService is the typed client for the employee shift-history endpoint.
type ShiftService struct {
	client ports.APIClient
	logger *slog.Logger
}

// NewShiftService constructs a new ShiftService.
func NewShiftService(opts ShiftServiceOptions) (*ShiftService, error) {
	if opts.Client == nil {
		return nil, apperrors.Internal("shift service requires an API client")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "shift_service")
	}
	return &ShiftService{client: opts.Client, logger: logger}, nil
}

// History fetches the current user's shift history.
func (s *ShiftService) History(ctx context.Context, q ShiftQuery) (*ShiftHistory, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	var history ShiftHistory
	if err := s.client.Get(ctx, q.path(), &history); err != nil {
		return nil, err
	}
	return &history, nil
}
