package http

import (
	"errors"

	apierrors "kscompare/internal/errors"
	"kscompare/internal/services"
)

// mapServiceError converts service sentinel errors into API errors. Errors
// it does not recognise, including context errors, pass through so the
// ErrorHandler can classify them.
func mapServiceError(err error, dataset string) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		return apierrors.DatasetNotFoundError(dataset)
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.UnsupportedFormatError(dataset)
	case errors.Is(err, services.ErrDatasetInvalid):
		return apierrors.DatasetInvalidError(err)
	case errors.Is(err, services.ErrInvalidInput):
		return apierrors.InvalidSelectionError(err)
	case errors.Is(err, services.ErrEmptySubset):
		return apierrors.EmptySubsetError(err.Error())
	default:
		return err
	}
}
