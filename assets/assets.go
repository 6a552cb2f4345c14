package assets

import "embed"

// ServiceName is the canonical service identifier used by the tracer
// and the HTTP transport.
const ServiceName = "vantage-api"

// SwaggerUI holds the static API documentation page served at /swaggerui.
//
//go:embed swaggerui
var SwaggerUI embed.FS
