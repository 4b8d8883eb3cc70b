// Package failure carries an HTTP status alongside an error message so that
// services decide the status and handlers only render it.
package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"sizopi/shared/constant"
)

// CapacityMessagePrefix marks capacity violations, both the ones raised by
// the service and the ones raised by the database trigger.
const CapacityMessagePrefix = "capacity exceeded"

type Failure struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Remaining *int   `json:"remaining,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

// BadRequest keeps the message of err. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

// CapacityExceeded reports that a booking does not fit. The message and
// Remaining both carry the number of tickets still available.
func CapacityExceeded(remaining int) error {
	return &Failure{
		Code:      http.StatusBadRequest,
		Message:   fmt.Sprintf("%s: only %d tickets remaining", CapacityMessagePrefix, remaining),
		Remaining: &remaining,
	}
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(entityName string) error {
	return newFailure(http.StatusNotFound, entityName)
}

func Conflict(message string) error {
	return newFailure(http.StatusConflict, message)
}

// InternalError keeps the cause for logs. response.WithError never sends
// the message of a 500 to clients. A nil err stays nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusInternalServerError, err.Error())
}

// FromDatabase translates an error coming out of a repository or transaction
// into a Failure. Known, user-actionable database rules keep their meaning;
// anything else becomes an internal error whose cause stays server side.
func FromDatabase(err error, action string) error {
	if err == nil {
		return nil
	}

	var fail *Failure
	if errors.As(err, &fail) {
		return fail
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return newFailure(http.StatusInternalServerError, fmt.Sprintf("%s: %v", action, err))
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return Conflict(action + ": record already exists")
	case constant.PqErrorCodeFkViolation:
		return Conflict(action + ": related record is missing or still referenced")
	case constant.PqErrorCodeCheckViolation:
		return BadRequestFromString(action + ": value violates a data constraint")
	case constant.PqErrorCodeRaiseException:
		if strings.HasPrefix(strings.ToLower(pqErr.Message), CapacityMessagePrefix) {
			return BadRequestFromString(pqErr.Message)
		}

		return Conflict(pqErr.Message)
	default:
		return newFailure(http.StatusInternalServerError, fmt.Sprintf("%s: %v", action, err))
	}
}

// GetCode is 500 for anything that is not a Failure, nil included.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
