// Package docs holds the generated swagger spec registration.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/pricing/quote": {
            "get": {
                "produces": ["application/json"],
                "summary": "Resolve a pricing quote for a service type",
                "parameters": [
                    {"type": "string", "name": "service_type", "in": "query", "required": true},
                    {"type": "number", "name": "lat", "in": "query"},
                    {"type": "number", "name": "lng", "in": "query"},
                    {"type": "boolean", "name": "seasonal", "in": "query"},
                    {"type": "string", "name": "event_date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/packages": {
            "get": {
                "produces": ["application/json"],
                "summary": "List active package deals with savings",
                "parameters": [
                    {"type": "string", "name": "event_type", "in": "query", "required": true},
                    {"type": "string", "name": "categories", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/events/{event_id}/packages/{package_id}/apply": {
            "post": {
                "produces": ["application/json"],
                "summary": "Apply a package deal to an event",
                "parameters": [
                    {"type": "string", "name": "event_id", "in": "path", "required": true},
                    {"type": "string", "name": "package_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/events/{event_id}/budget/breakdown": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get the per-category budget breakdown",
                "parameters": [
                    {"type": "string", "name": "event_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "categories", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/events/{event_id}/budget/adjustments": {
            "post": {
                "produces": ["application/json"],
                "summary": "Apply budget adjustments to breakdown entries",
                "parameters": [
                    {"type": "string", "name": "event_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Planora Budget & Pricing API",
	Description:      "Event budget planning and contractor pricing engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
