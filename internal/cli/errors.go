package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/services/session"
)

var (
	errNotLoggedIn     = errors.New("not logged in: run 'sporthub login' first")
	errAdminRequired   = errors.New("this action requires an admin, coach or owner account")
	errNonNumericUser  = errors.New("account id is not numeric")
	errInvalidArgument = errors.New("invalid argument")
)

// userError shows a friendly message while keeping the cause for errors.Is
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string {
	return e.msg
}

func (e *userError) Unwrap() error {
	return e.err
}

func sessionError(err error) error {
	return &userError{msg: session.Message(err), err: err}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive number", errInvalidArgument, arg)
	}
	return id, nil
}

func (rt *runtime) requireUser() (*model.User, error) {
	user := rt.app.Sessions.CurrentUser()
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}

func (rt *runtime) requireAdmin() error {
	if !rt.app.Sessions.IsAuthenticated() {
		return errNotLoggedIn
	}
	if !rt.app.Sessions.CanAccessAdminArea() {
		return errAdminRequired
	}
	return nil
}

// bookingUserID converts an account id into the numeric id bookings carry
func bookingUserID(user *model.User) (int64, error) {
	id, err := strconv.ParseInt(string(user.ID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNonNumericUser, user.ID)
	}
	return id, nil
}
