package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrValidation
	ErrBackendUnavailable
	ErrSessionBusy
	ErrVoiceUnavailable
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrValidation:         "invalid name or phone number",
	ErrBackendUnavailable: "user directory unavailable, please try again",
	ErrSessionBusy:        "a voice session is already starting",
	ErrVoiceUnavailable:   "voice service unavailable",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrNotFound:           http.StatusNotFound,
	ErrInternal:           http.StatusInternalServerError,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrValidation:         http.StatusBadRequest,
	ErrBackendUnavailable: http.StatusServiceUnavailable,
	ErrSessionBusy:        http.StatusConflict,
	ErrVoiceUnavailable:   http.StatusBadGateway,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrValidation:         "0005",
	ErrBackendUnavailable: "0006",
	ErrSessionBusy:        "0007",
	ErrVoiceUnavailable:   "0008",
}
