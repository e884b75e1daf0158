// Package docs holds the OpenAPI document served at /swagger/doc.json.
// It is maintained by hand alongside the handler annotations.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/settings": {
            "get": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Webhook destination and token used when sending shots",
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/settings.Settings"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "An empty webhookUrl disables the webhook",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update settings",
                "parameters": [
                    {
                        "description": "New settings",
                        "name": "settings",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/settings.Settings"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/settings.Settings"}},
                    "400": {"description": "Invalid JSON or webhook URL", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/shots": {
            "get": {
                "security": [{"DeviceKeyAuth": []}, {"BearerAuth": []}],
                "description": "Newest first",
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "List shots",
                "parameters": [
                    {"type": "integer", "description": "Page size (default 50, max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/shot.Shot"}}},
                    "400": {"description": "Non-numeric limit or offset", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"DeviceKeyAuth": []}, {"BearerAuth": []}],
                "description": "Accepts a JSON shot body, or a multipart upload with a JSON file in the \"file\" field",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "Record a shot",
                "parameters": [
                    {"description": "Shot", "name": "shot", "in": "body", "schema": {"$ref": "#/definitions/shot.Shot"}},
                    {"type": "file", "description": "Shot JSON file", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/shot.Shot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/shots/{id}": {
            "get": {
                "security": [{"DeviceKeyAuth": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "Get shot",
                "parameters": [
                    {"type": "string", "description": "Shot ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shot.Shot"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "Delete shot",
                "parameters": [
                    {"type": "string", "description": "Shot ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deletion confirmation", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/shots/{id}/export": {
            "get": {
                "security": [{"DeviceKeyAuth": []}, {"BearerAuth": []}],
                "produces": ["application/json", "text/csv"],
                "tags": ["shots"],
                "summary": "Export shot",
                "parameters": [
                    {"type": "string", "description": "Shot ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "json (default) or csv", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Exported shot", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/shots/{id}/notes": {
            "put": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "A JSON null body clears the notes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "Replace shot notes",
                "parameters": [
                    {"type": "string", "description": "Shot ID", "name": "id", "in": "path", "required": true},
                    {"description": "Notes", "name": "notes", "in": "body", "required": true, "schema": {"$ref": "#/definitions/shot.Notes"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shot.Shot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/shots/{id}/webhook": {
            "post": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Posts the shot to the configured webhook once. Body fields override notes, URL and token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shots"],
                "summary": "Send shot to webhook",
                "parameters": [
                    {"type": "string", "description": "Shot ID", "name": "id", "in": "path", "required": true},
                    {"description": "Overrides", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.sendWebhookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.sendWebhookResponse"}},
                    "400": {"description": "Bad body or override URL", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "404": {"description": "Shot not found", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "412": {"description": "Webhook not configured", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "502": {"description": "Webhook rejected the request", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "504": {"description": "Webhook unreachable", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.sendWebhookRequest": {
            "type": "object",
            "properties": {
                "authToken": {"type": "string"},
                "notes": {"$ref": "#/definitions/shot.Notes"},
                "url": {"type": "string", "example": "https://example.com/hook"}
            }
        },
        "handlers.sendWebhookResponse": {
            "type": "object",
            "properties": {
                "result": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "settings.Settings": {
            "type": "object",
            "properties": {
                "webhookAuthToken": {"type": "string"},
                "webhookUrl": {"type": "string", "example": "https://example.com/hook"}
            }
        },
        "shot.Notes": {
            "type": "object",
            "properties": {
                "balanceTaste": {"type": "string", "enum": ["bitter", "balanced", "sour"], "example": "balanced"},
                "beanType": {"type": "string", "example": "Ethiopia Guji"},
                "doseIn": {"type": "number", "example": 18},
                "doseOut": {"type": "number", "example": 36.4},
                "grindSetting": {"type": "string", "example": "12"},
                "notes": {"type": "string", "example": "Bright, a touch thin"},
                "ratio": {"type": "number", "example": 2.02},
                "rating": {"type": "integer", "example": 4}
            }
        },
        "shot.Sample": {
            "type": "object",
            "properties": {
                "cp": {"type": "number"},
                "ct": {"type": "number"},
                "ev": {"type": "number"},
                "fl": {"type": "number"},
                "pf": {"type": "number"},
                "t": {"type": "integer"},
                "tf": {"type": "number"},
                "tp": {"type": "number"},
                "tt": {"type": "number"},
                "v": {"type": "number"}
            }
        },
        "shot.Shot": {
            "type": "object",
            "properties": {
                "duration": {"type": "integer", "example": 28500},
                "id": {"type": "string", "example": "8c1a9b0e-6c1f-4f4e-9d0c-1b2f3a4c5d6e"},
                "incomplete": {"type": "boolean", "example": false},
                "notes": {"$ref": "#/definitions/shot.Notes"},
                "profile": {"type": "string", "example": "Classic 9 bar"},
                "profileId": {"type": "string", "example": "classic-9"},
                "samples": {"type": "array", "items": {"$ref": "#/definitions/shot.Sample"}},
                "timestamp": {"type": "integer", "example": 1718000000},
                "volume": {"type": "number", "example": 36.4}
            }
        },
        "util.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/util.ErrorDetail"}
            }
        },
        "util.ErrorDetail": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "network"},
                "message": {"type": "string", "example": "unable to connect to webhook URL"},
                "status": {"type": "integer", "example": 500}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "DeviceKeyAuth": {"type": "apiKey", "name": "X-Device-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Shot History API",
	Description:      "Stores espresso shot telemetry and forwards shots to a user-configured webhook.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
