// Package docs registers the OpenAPI description served at /swagger.
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
                "description": "Reports \"degraded\" once the radio loop has stopped.",
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an operator",
                "description": "The first operator may register without a token. After that an operator token is required unless auth.open_sign_up is set.",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue a bearer token",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current operator",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Actor"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Radio status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ServiceStatus"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/fake-ap/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Advertises an open network with no services behind it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Start fake AP",
                "parameters": [{"description": "SSID payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SSIDRequest"}}],
                "responses": {
                    "200": {"description": "status, state", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/fake-ap/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Stop fake AP",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/portal/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Start captive portal",
                "parameters": [{"description": "SSID payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SSIDRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/portal/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Stop captive portal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/transfer/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Requires the radio to be joined to a network in station mode.",
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Start transfer server",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/transfer/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Stop transfer server",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/transfer/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Transfer counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TransferStats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/stop-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Stop every mode",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/station/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Puts the radio in station mode so the transfer server can start. Refused while fake AP or portal hold the radio.",
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Join upstream network",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/radio/station/leave": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stops the transfer server and powers the radio off.",
                "produces": ["application/json"],
                "tags": ["radio"],
                "summary": "Leave upstream network",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.commandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "example": "2026-03-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2026-03-31", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["START", "STOP", "RECONCILE", "REJECTED", "RESET"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"$ref": "#/definitions/handlers.logsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string", "example": "alice"}, "password": {"type": "string"}}
        },
        "handlers.SSIDRequest": {
            "type": "object",
            "required": ["ssid"],
            "properties": {"ssid": {"description": "Network name, 1-32 bytes after trimming.", "type": "string", "example": "Free WiFi"}}
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.commandResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "started"}, "state": {"$ref": "#/definitions/models.ServiceStatus"}}
        },
        "handlers.logsResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer"}, "events": {"type": "array", "items": {"$ref": "#/definitions/models.RadioEvent"}}}
        },
        "models.ServiceStatus": {
            "type": "object",
            "properties": {
                "fake_ap_running": {"type": "boolean"},
                "fake_ap_name": {"type": "string"},
                "portal_running": {"type": "boolean"},
                "portal_name": {"type": "string"},
                "portal_visitors": {"type": "integer"},
                "transfer_running": {"type": "boolean"},
                "connected_clients": {"type": "integer"},
                "station_connected": {"type": "boolean"}
            }
        },
        "models.Actor": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "models.TransferStats": {
            "type": "object",
            "properties": {
                "uploads": {"type": "integer"},
                "downloads": {"type": "integer"},
                "deletes": {"type": "integer"},
                "bytes_in": {"type": "integer"},
                "bytes_out": {"type": "integer"}
            }
        },
        "models.RadioEvent": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "occurred_at": {"type": "string", "format": "date-time"},
                "type": {"type": "string"},
                "mode": {"type": "string"},
                "description": {"type": "string"},
                "actor": {"type": "string", "description": "Operator who issued the command; empty for internal transitions"},
                "metadata": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cardputer Radio API",
	Description:      "Controls the WiFi radio modes: fake AP, captive portal and transfer server.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
