package errx

import "net/http"

// Type is the category of an error. It picks the HTTP status when a code
// does not carry one of its own.
type Type string

const (
	TypeInternal   Type = "INTERNAL"
	TypeValidation Type = "VALIDATION"
	TypeNotFound   Type = "NOT_FOUND"
	TypeConflict   Type = "CONFLICT"
	// TypeExternal covers the task API, the hub and redis as seen from a caller
	TypeExternal Type = "EXTERNAL"
	// TypeUnavailable is for things that were closed or shut down
	TypeUnavailable Type = "UNAVAILABLE"
)

var typeStatus = map[Type]int{
	TypeValidation:  http.StatusBadRequest,
	TypeNotFound:    http.StatusNotFound,
	TypeConflict:    http.StatusConflict,
	TypeExternal:    http.StatusBadGateway,
	TypeUnavailable: http.StatusServiceUnavailable,
}

func (t Type) String() string {
	return string(t)
}

// HTTPStatus returns the status for t; unknown types map to 500.
func (t Type) HTTPStatus() int {
	if s, ok := typeStatus[t]; ok {
		return s
	}
	return http.StatusInternalServerError
}
