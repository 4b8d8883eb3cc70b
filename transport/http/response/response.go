// Package response writes the JSON envelopes handlers answer with:
// {"data": ...} on success and {"message": ...} otherwise.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"sizopi/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Remaining is set only when a
// booking was refused for capacity.
type Error struct {
	Message   string `json:"message"`
	Remaining *int   `json:"remaining,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithError maps err to its status. Server side failures are logged with
// their stack and answered with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) || fail.Code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)
		write(writer, failure.GetCode(err), Error{Message: constant.ResponseErrorInternal})

		return
	}

	write(writer, fail.Code, Error{Message: fail.Message, Remaining: fail.Remaining})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown tells load balancers to drain this instance.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
