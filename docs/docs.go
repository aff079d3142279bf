// Package docs registers the Swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tips"],
                "summary": "List the distinct tip categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/tips.Category"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}}
                }
            }
        },
        "/api/tips": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tips"],
                "summary": "List tips with free-text, category and date filters",
                "parameters": [
                    {"type": "string", "description": "Free text, matched against text, summary, threat_reason, place and category", "name": "q", "in": "query"},
                    {"type": "string", "description": "Earliest event date (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Latest event date (YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Comma separated categories", "name": "categories", "in": "query"},
                    {"type": "integer", "description": "Page, starting at 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, 1 to 100", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tips.ListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Healthcheck"],
                "summary": "Count the stored tips to verify database access",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tips.HealthResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/tips.HealthResponse"}}
                }
            }
        },
        "/api/dashboard/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Open a dashboard session and load the first page",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dashboard.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}}
                }
            }
        },
        "/api/dashboard/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Get the current view of a session",
                "parameters": [
                    {"type": "string", "description": "Session Id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}}
                }
            }
        },
        "/api/dashboard/sessions/{id}/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Apply a filter, paging or selection event to a session",
                "parameters": [
                    {"type": "string", "description": "Session Id", "name": "id", "in": "path", "required": true},
                    {"description": "Event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dashboard.EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/tips.ErrorResponse"}}
                }
            }
        },
        "/caches/prune": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Cache"],
                "summary": "Drop every cached response and geocode result",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/healthcheck": {
            "get": {
                "description": "get the status of server.",
                "consumes": ["*/*"],
                "produces": ["application/json"],
                "tags": ["Healthcheck"],
                "summary": "Show the status of server.",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        }
    },
    "definitions": {
        "tips.Tip": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "text": {"type": "string"},
                "place": {"type": "string"},
                "event_time": {"type": "string"},
                "category": {"type": "string"},
                "threat_level": {"type": "string"},
                "threat_reason": {"type": "string"},
                "summary": {"type": "string"},
                "created_at": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "contact": {"type": "string"},
                "image_url": {"type": "string"},
                "extra": {"type": "object", "additionalProperties": true}
            }
        },
        "tips.ListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/tips.Tip"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "tips.Category": {
            "type": "object",
            "properties": {"name": {"type": "string"}}
        },
        "tips.HealthResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "rows": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "tips.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dashboard.EventRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["reload", "query", "date_from", "date_to", "category", "region", "threat", "prev", "next", "first", "select", "close", "focus"]},
                "value": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "dashboard.Response": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "filters": {"type": "object", "additionalProperties": {"type": "string"}},
                "list_html": {"type": "string"},
                "page_info": {"type": "string"},
                "page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "filtered": {"type": "integer"},
                "prev_disabled": {"type": "boolean"},
                "next_disabled": {"type": "boolean"},
                "show_first": {"type": "boolean"},
                "markers": {"type": "array", "items": {"type": "object"}},
                "keep_markers": {"type": "boolean"},
                "actions": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-Api-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"https", "http"},
	Title:            "Tips Dashboard API",
	Description:      "Tips map dashboard: tip listing, categories and dashboard sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
