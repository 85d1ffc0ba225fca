package router

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afilmory/core/app/controllers"
)

const openAPIFile = "../../../public/docs/v1/openapi.yml"

var routeParam = regexp.MustCompile(`:([A-Za-z_]+)`)

func toOpenAPIPath(path string) string {
	return routeParam.ReplaceAllString(path, "{$1}")
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(openAPIFile)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestOpenAPIDocumentsEveryRoute(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromFile(openAPIFile)
	require.NoError(t, err)

	app := fiber.New()
	NewApiRouter(&Dependencies{
		StoragePlans:   controllers.NewStoragePlanController(nil),
		StorageSetting: controllers.NewStorageSettingController(nil),
		BillingWebhook: controllers.NewBillingWebhookController(nil, ""),
	}).InstallRouter(app)

	checked := 0
	for _, r := range app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api/v1/") || r.Method == fiber.MethodHead {
			continue
		}
		path := toOpenAPIPath(strings.TrimPrefix(r.Path, "/api/v1"))
		item := doc.Paths.Find(path)
		require.NotNilf(t, item, "%s is not documented", path)
		assert.NotNilf(t, item.GetOperation(r.Method), "%s %s is not documented", r.Method, path)
		checked++
	}
	assert.Equal(t, 13, checked)
}
