package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const docsPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>designhub API</title>
</head>
<body>
<redoc spec-url="/docs/openapi.yaml" hide-download-button></redoc>
<script src="https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"></script>
</body>
</html>`

// APIDocs renders the embedded OpenAPI document.
func APIDocs(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}

func OpenAPIDocument(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/yaml", openAPIDocument)
}
