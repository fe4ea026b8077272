package constants

import "net/http"

// CodedError is an error that knows which HTTP status it should be reported with.
type CodedError struct {
	message string
	code    int
}

func NewCodedError(message string, code int) *CodedError {
	return &CodedError{message: message, code: code}
}

func (e *CodedError) Error() string {
	return e.message
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	// ErrSourceUnavailable: the spreadsheet or boundary file could not be read.
	ErrSourceUnavailable = NewCodedError("source unavailable", http.StatusBadGateway)
	// ErrSourceMalformed: a required sheet, column or feature property is missing or unreadable.
	ErrSourceMalformed = NewCodedError("source malformed", http.StatusInternalServerError)

	ErrRegionNotFound = NewCodedError("region not found", http.StatusNotFound)
	ErrUnknownField   = NewCodedError("unknown field", http.StatusBadRequest)
	ErrBadRequest     = NewCodedError("bad request", http.StatusBadRequest)
)
