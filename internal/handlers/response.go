package handlers

import (
	"errors"
	"net/http"

	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, pkgerrors.ErrRenderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
