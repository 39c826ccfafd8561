// Package adminapi exposes the REST endpoints for products and orders.
package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/app"
	"github.com/talkincode/toughstore/internal/listing"
	"github.com/talkincode/toughstore/internal/webserver"
)

// RegisterRoutes registers all API routes on the web server.
func RegisterRoutes() {
	registerProductRoutes()
	registerOrderRoutes()
}

// GetDB returns the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

// GetAppContext returns the request-scoped application context
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// ok wraps a payload in the canonical data envelope
func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"data": data})
}

// paged wraps a listing page in the canonical data envelope
func paged(c echo.Context, page *listing.Page) error {
	return ok(c, page)
}

// created returns 201 with a message envelope
func created(c echo.Context, message string) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{"message": message})
}

// fail returns the given status with a message envelope
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{"message": message})
}

// handleValidationError renders a 422 with per-field error messages. Field
// keys follow the wire format, e.g. "variants.0.size".
func handleValidationError(c echo.Context, err error) error {
	verrs, is := err.(validator.ValidationErrors)
	if !is {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}

	fields := map[string][]string{}
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "The given data was invalid.",
		"errors":  fields,
	})
}

// fieldPath converts a validator namespace like
// "productPayload.variants[0].size" into "variants.0.size".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	namespace = strings.ReplaceAll(namespace, "]", "")
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "This field must have at least " + fe.Param() + " item(s)."
	case "max":
		return "This field may not be greater than " + fe.Param() + "."
	case "oneof":
		return "This field must be one of: " + fe.Param() + "."
	case "email":
		return "This field must be a valid email address."
	default:
		return "This field is invalid."
	}
}

// parseIDParam parses a positive int64 path parameter
func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseListingParams reads search/page/per_page query parameters. The search
// filter is active whenever the parameter is present, even when empty,
// matching the resource listing contract.
func parseListingParams(c echo.Context) listing.Params {
	var params listing.Params

	if values := c.QueryParams(); values.Has("search") {
		search := values.Get("search")
		params.Search = &search
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && perPage > 0 {
		params.PerPage = perPage
	}
	if params.PerPage == 0 {
		if size := GetAppContext(c).GetSettingsInt64Value("web", "DefaultPageSize"); size > 0 {
			params.PerPage = int(size)
		}
	}
	return params
}
