package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/toughstore/internal/ordering"
	"github.com/talkincode/toughstore/internal/webserver"
)

type detailPayload struct {
	ID        *int64 `json:"id"`
	VariantId int64  `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

type orderPayload struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Email         string          `json:"email" validate:"required,email"`
	Address       string          `json:"address" validate:"required,max=500"`
	TotalQuantity int             `json:"total_quantity" validate:"required"`
	Details       []detailPayload `json:"details" validate:"required,min=1,dive"`
}

// orderUpdatePayload relaxes field rules for partial updates; the detail set
// is always required in full.
type orderUpdatePayload struct {
	Name          *string         `json:"name" validate:"omitempty,max=200"`
	Email         *string         `json:"email" validate:"omitempty,email"`
	Address       *string         `json:"address" validate:"omitempty,max=500"`
	TotalQuantity *int            `json:"total_quantity" validate:"omitempty"`
	Details       []detailPayload `json:"details" validate:"required,min=1,dive"`
}

// registerOrderRoutes registers order CRUD endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiPATCH("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

func detailInputs(payloads []detailPayload) []ordering.DetailInput {
	inputs := make([]ordering.DetailInput, 0, len(payloads))
	for _, d := range payloads {
		inputs = append(inputs, ordering.DetailInput{
			ID:        d.ID,
			VariantId: d.VariantId,
			Quantity:  d.Quantity,
		})
	}
	return inputs
}

// variantRefError renders the 422 for a detail referencing a missing variant.
func variantRefError(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "The given data was invalid.",
		"errors":  map[string][]string{"details.variant_id": {"The selected variant does not exist."}},
	})
}

// listOrders retrieves the order list
// @Summary get the order list
// @Tags Orders
// @Param search query string false "Substring match over name/address/email"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Router /orders [get]
func listOrders(c echo.Context) error {
	svc := ordering.NewOrderService(GetDB(c))
	page, err := svc.List(c.Request().Context(), parseListingParams(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return paged(c, page)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found.")
	}

	svc := ordering.NewOrderService(GetDB(c))
	order, err := svc.Get(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Order not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse order parameters.")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	svc := ordering.NewOrderService(GetDB(c))
	_, err := svc.Create(c.Request().Context(), ordering.CreateOrderInput{
		Name:          payload.Name,
		Email:         payload.Email,
		Address:       payload.Address,
		TotalQuantity: payload.TotalQuantity,
		Details:       detailInputs(payload.Details),
	})
	if errors.Is(err, ordering.ErrVariantNotFound) {
		return variantRefError(c)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return created(c, "Order created successfully.")
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found.")
	}

	var payload orderUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse order parameters.")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	svc := ordering.NewOrderService(GetDB(c))
	_, err = svc.Update(c.Request().Context(), id, ordering.UpdateOrderInput{
		Name:          payload.Name,
		Email:         payload.Email,
		Address:       payload.Address,
		TotalQuantity: payload.TotalQuantity,
		Details:       detailInputs(payload.Details),
	})
	switch {
	case errors.Is(err, ordering.ErrNotFound), errors.Is(err, ordering.ErrDetailNotFound):
		return fail(c, http.StatusNotFound, "Order not found.")
	case errors.Is(err, ordering.ErrVariantNotFound):
		return variantRefError(c)
	case err != nil:
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Order updated successfully."})
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Order not found.")
	}

	svc := ordering.NewOrderService(GetDB(c))
	err = svc.Delete(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Order not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
