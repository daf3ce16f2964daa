package handlers

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
    <div id="swagger-ui"></div>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: {{.SpecURL}},
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
                requestInterceptor: (request) => {
                    const header = request.headers.Authorization;
                    if (header && !header.startsWith('Bearer ')) {
                        request.headers.Authorization = 'Bearer ' + header;
                    }
                    return request;
                },
                persistAuthorization: true
            });
        };
    </script>
</body>
</html>
`))

// SwaggerUIWithBearerFix serves a Swagger UI that prefixes pasted tokens
// with "Bearer ".
func SwaggerUIWithBearerFix(specURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := swaggerPage.Execute(c.Writer, gin.H{
			"Title":   "Cashbook API Documentation",
			"SpecURL": specURL,
		}); err != nil {
			c.Error(err)
		}
	}
}
