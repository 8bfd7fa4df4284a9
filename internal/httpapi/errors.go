package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"gtotp/pkg/i18n"
)

// Error is a handler failure that knows its status code and the message key
// shown to clients.
type Error struct {
	status int
	key    string
	args   []any
	// extra holds already rendered messages, e.g. from the validator.
	extra []string
	err   error
}

func (e *Error) Error() string {
	msg := i18n.ResolveLang(e.key, "en")
	if e.err != nil {
		return msg + ": " + e.err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) StatusCode() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

// Messages renders the error for the given Accept-Language value.
func (e *Error) Messages(lang string) []string {
	if len(e.extra) > 0 {
		return e.extra
	}
	msg := i18n.ResolveLang(e.key, lang)
	if len(e.args) > 0 {
		msg = fmt.Sprintf(msg, e.args...)
	}
	return []string{msg}
}

func newBadRequest(key string, err error, args ...any) *Error {
	return &Error{status: http.StatusBadRequest, key: key, args: args, err: err}
}

func newInternal(err error) *Error {
	return &Error{status: http.StatusInternalServerError, key: i18n.MsgInternalError, err: err}
}

func newValidation(messages []string) *Error {
	return &Error{status: http.StatusBadRequest, key: i18n.MsgInvalidBody, extra: messages}
}

// asError turns any handler error into an *Error. Unknown errors become 500.
func asError(err error) *Error {
	var herr *Error
	if errors.As(err, &herr) {
		return herr
	}
	return newInternal(err)
}
