package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateUserRequest is bound from a JSON or form body
type CreateUserRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
}

// AddExerciseRequest is bound from a JSON or form body. Date is optional.
type AddExerciseRequest struct {
	Description string   `form:"description" json:"description"`
	Duration    *Minutes `form:"duration" json:"duration" binding:"required"`
	Date        string   `form:"date" json:"date"`
}

// Minutes is a whole number of minutes. JSON bodies may send it as a
// number or as a numeric string, the way HTML forms post it.
type Minutes int

// UnmarshalJSON accepts 30 and "30".
func (m *Minutes) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(b), `"`))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("duration must be a whole number of minutes, got %s", b)
	}
	*m = Minutes(n)
	return nil
}

// bindingMessage turns a bind error into a short client message
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return strings.ToLower(verrs[0].Field()) + " is required"
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return "duration must be a whole number of minutes"
	}
	return err.Error()
}
