package common

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	IsStaffKey  contextKey = "is_staff"
)

// DateLayout is the wire format for calendar dates in query strings and JSON bodies.
const DateLayout = "2006-01-02"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// GetUserIDFromContext returns the authenticated user's id.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// IsStaffFromContext reports whether the authenticated user carries the staff flag.
func IsStaffFromContext(ctx context.Context) bool {
	staff, _ := ctx.Value(IsStaffKey).(bool)
	return staff
}

// ParseID parses a positive integer path parameter.
func ParseID(idStr string, fieldName string) (int64, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return 0, NewValidationError(fieldName, fieldName+" is required")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError(fieldName, fieldName+" must be a positive integer")
	}
	return id, nil
}

// ParseOptionalDate parses a YYYY-MM-DD value; an empty string yields nil.
func ParseOptionalDate(dateStr, fieldName string) (*time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, nil
	}
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, NewValidationError(fieldName, fieldName+" must be in YYYY-MM-DD format")
	}
	return &date, nil
}

// ValidatePaginationParams normalizes limit and offset. A zero limit means "no limit".
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit < 0 {
		return 0, 0, NewValidationError("limit", "limit cannot be negative")
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, NewValidationError("offset", "offset cannot exceed 1,000,000")
	}
	return limit, offset, nil
}
