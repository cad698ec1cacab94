// Package docs registers the OpenAPI description of the board service.
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
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Board", "description": "Board state and drag and drop"},
        {"name": "Notifications", "description": "Toasts and diagnostics raised by the board"}
    ],
    "paths": {
        "/board": {"get": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Current board", "responses": {"200": {"description": "OK"}}}},
        "/board/drag-end": {"post": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Move or reorder a task", "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/board/reload": {"post": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Reload the board", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/board/tasks": {"post": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Create a task", "parameters": [{"name": "task", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}},
        "/board/tasks/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Edit a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "task", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "502": {"description": "Bad Gateway"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Board"], "summary": "Delete a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "502": {"description": "Bad Gateway"}}}
        },
        "/notifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["Notifications"], "summary": "Recent notifications", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Workboard API",
	Description:      "Kanban board service: board snapshots, drag and drop with optimistic updates, notifications",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
