package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/seating"
	"github.com/hostsuite/frontdesk/utils"
)

type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string {
	return e.Msg
}

var ErrNoPermission = &CustomError{"you don't have permission for this action"}

// respondSeatingError maps the seating error taxonomy onto HTTP codes.
// Validation failures are 409 (the request was well-formed, the floor
// state says no), missing entities 404, persistence trouble 500.
func respondSeatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, seating.ErrTableUnavailable),
		errors.Is(err, seating.ErrCapacityExceeded),
		errors.Is(err, seating.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
