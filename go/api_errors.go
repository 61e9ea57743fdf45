package invoicingserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	clientsapp "github.com/Apurer/invoicing-api/internal/domains/clients/application"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productsapp "github.com/Apurer/invoicing-api/internal/domains/products/application"
	productports "github.com/Apurer/invoicing-api/internal/domains/products/ports"
	apierrors "github.com/Apurer/invoicing-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("", mapInvoiceError, mapClientError, mapProductError)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}

// parseIDParam binds a positive int64 path parameter, answering 400 on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	if err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id); err != nil {
		respondProblem(c, apierrors.ErrValidation.
			WithDetail(err.Error()).
			WithExtension("fields", map[string]string{name: "must be an integer"}))
		return 0, false
	}
	if id <= 0 {
		respondProblem(c, apierrors.ErrValidation.
			WithDetail(fmt.Sprintf("%s must be positive", name)).
			WithExtension("fields", map[string]string{name: "must be positive"}))
		return 0, false
	}
	return id, true
}

func mapInvoiceError(err error) (apierrors.ProblemDetail, bool) {
	var (
		clientErr  *invoicesapp.ClientNotFoundError
		productErr *invoicesapp.ProductNotFoundError
		stockErr   *invoicesapp.InsufficientStockError
		invalidErr *invoicesapp.InvalidRequestError
	)
	switch {
	case errors.As(err, &clientErr):
		return apierrors.NewNotFoundProblem("client", clientErr.ClientID).WithDetail(err.Error()), true
	case errors.As(err, &productErr):
		return apierrors.ErrUnprocessable.
			WithDetail(err.Error()).
			WithExtension("productId", productErr.ProductID), true
	case errors.As(err, &stockErr):
		return apierrors.ErrInsufficientStock.
			WithDetail(err.Error()).
			WithExtension("productId", stockErr.ProductID).
			WithExtension("productName", stockErr.ProductName).
			WithExtension("requested", stockErr.Requested).
			WithExtension("available", stockErr.Available), true
	case errors.As(err, &invalidErr):
		return apierrors.ErrValidation.WithDetail(invalidErr.Reason), true
	case errors.Is(err, invoicesapp.ErrInvoiceNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, invoiceports.ErrConcurrentUpdate):
		return apierrors.ErrConflict.
			WithDetail("stock changed while the invoice was being created; retry the request").
			WithExtension("retryable", true), true
	case errors.Is(err, invoiceports.ErrWorkflowTimeout):
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapClientError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, clientports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, clientports.ErrDuplicate):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, clientsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapProductError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, productports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, productports.ErrDuplicateName), errors.Is(err, productports.ErrVersionConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, productsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
