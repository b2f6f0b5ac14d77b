package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

var loadOpenAPI = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
})

// OpenAPI returns the parsed and validated API document.
func OpenAPI() (*openapi3.T, error) {
	return loadOpenAPI()
}

// swaggerDoc feeds the API document to the swagger UI.
type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string {
	doc, err := OpenAPI()
	if err != nil {
		return "{}"
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func init() {
	swag.Register(swag.Name, swaggerDoc{})
}

func serveOpenAPI(ctx echo.Context) error {
	doc, err := OpenAPI()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "API document is unavailable",
		})
	}
	return ctx.JSON(http.StatusOK, doc)
}
