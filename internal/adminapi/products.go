package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/toughstore/internal/catalog"
	"github.com/talkincode/toughstore/internal/webserver"
)

type variantPayload struct {
	ID            *int64 `json:"id"`
	Color         string `json:"color" validate:"required"`
	Specification string `json:"specification" validate:"required"`
	Size          string `json:"size" validate:"required,oneof=small medium large"`
}

type productPayload struct {
	Name     string           `json:"name" validate:"required,min=1,max=200"`
	Brand    string           `json:"brand" validate:"required,max=200"`
	Type     string           `json:"type" validate:"required,oneof=Mug Jug Cup Glass Plate"`
	Origin   string           `json:"origin" validate:"required,max=200"`
	Variants []variantPayload `json:"variants" validate:"required,min=1,dive"`
}

// productUpdatePayload relaxes field rules for partial updates; the variant
// set is always required in full.
type productUpdatePayload struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Brand    *string          `json:"brand" validate:"omitempty,max=200"`
	Type     *string          `json:"type" validate:"omitempty,oneof=Mug Jug Cup Glass Plate"`
	Origin   *string          `json:"origin" validate:"omitempty,max=200"`
	Variants []variantPayload `json:"variants" validate:"required,min=1,dive"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiPATCH("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func variantInputs(payloads []variantPayload) []catalog.VariantInput {
	inputs := make([]catalog.VariantInput, 0, len(payloads))
	for _, v := range payloads {
		inputs = append(inputs, catalog.VariantInput{
			ID:            v.ID,
			Color:         v.Color,
			Specification: v.Specification,
			Size:          v.Size,
		})
	}
	return inputs
}

// listProducts retrieves the product list
// @Summary get the product list
// @Tags Products
// @Param search query string false "Substring match over name/brand/type"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Router /products [get]
func listProducts(c echo.Context) error {
	svc := catalog.NewProductService(GetDB(c))
	page, err := svc.List(c.Request().Context(), parseListingParams(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return paged(c, page)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Product not found.")
	}

	svc := catalog.NewProductService(GetDB(c))
	product, err := svc.Get(c.Request().Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Product not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return ok(c, product)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product parameters.")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	svc := catalog.NewProductService(GetDB(c))
	_, err := svc.Create(c.Request().Context(), catalog.CreateProductInput{
		Name:     payload.Name,
		Brand:    payload.Brand,
		Type:     payload.Type,
		Origin:   payload.Origin,
		Variants: variantInputs(payload.Variants),
	})
	if errors.Is(err, catalog.ErrNameTaken) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"name": {"The name has already been taken."}},
		})
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return created(c, "Product created successfully.")
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Product not found.")
	}

	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product parameters.")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	svc := catalog.NewProductService(GetDB(c))
	_, err = svc.Update(c.Request().Context(), id, catalog.UpdateProductInput{
		Name:     payload.Name,
		Brand:    payload.Brand,
		Type:     payload.Type,
		Origin:   payload.Origin,
		Variants: variantInputs(payload.Variants),
	})
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrVariantNotFound):
		return fail(c, http.StatusNotFound, "Product or Variant not found.")
	case errors.Is(err, catalog.ErrNameTaken):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"name": {"The name has already been taken."}},
		})
	case err != nil:
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Product updated successfully."})
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, "Product not found.")
	}

	svc := catalog.NewProductService(GetDB(c))
	err = svc.Delete(c.Request().Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Product not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
