// Package docs holds the Swagger 2.0 document served at /swagger. It is
// maintained by hand alongside the handler annotations.
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
        "/connection/test": {
            "post": {
                "description": "Opens and closes the port, waiting for the board to settle. Defaults to the configured port.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["serial"],
                "summary": "Test a serial connection",
                "parameters": [
                    {
                        "description": "Port to test",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/types.ConnectionTestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ConnectionTestResponse"}}
                }
            }
        },
        "/devices": {
            "get": {
                "description": "Returns the device table in definition order with the last recorded state of each device",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "List all devices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ListDevicesResponse"}},
                    "500": {"description": "Storage error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/devices/{id}": {
            "get": {
                "description": "Returns a device's phrases, codes and last recorded state",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Get device details",
                "parameters": [
                    {"type": "string", "description": "Device id (led, fan, heater, lights)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DeviceResponse"}},
                    "404": {"description": "Device not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/devices/{id}/state": {
            "get": {
                "description": "Returns the last recorded state of a device",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Get device state",
                "parameters": [
                    {"type": "string", "description": "Device id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StateResponse"}},
                    "404": {"description": "Device not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Sends the device's on or off code directly, without the language model",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Set device state",
                "parameters": [
                    {"type": "string", "description": "Device id", "name": "id", "in": "path", "required": true},
                    {"description": "State to set", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SetStateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StateResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Device not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Code could not be delivered", "schema": {"$ref": "#/definitions/types.StateResponse"}}
                }
            }
        },
        "/dispatch": {
            "post": {
                "description": "Sends the prompt to the language model, extracts device commands from its reply and sends the matching codes to the board",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Dispatch a prompt",
                "parameters": [
                    {"description": "Prompt", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.DispatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DispatchResponse"}},
                    "400": {"description": "Missing prompt", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Language model error", "schema": {"$ref": "#/definitions/types.DispatchResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the API status and the actuator in use",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "parameters": [
                    {"type": "boolean", "description": "Open the actuator port to check it is reachable", "name": "probe", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/types.HealthResponse"}},
                    "503": {"description": "Actuator unreachable", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "description": "Returns recent dispatches, newest first",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "List dispatch history",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of dispatches (default 20, max 200)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HistoryResponse"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["history"],
                "summary": "Clear dispatch history",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/history/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Get a dispatch",
                "parameters": [
                    {"type": "string", "description": "Dispatch id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DispatchResponse"}},
                    "404": {"description": "Dispatch not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/ports": {
            "get": {
                "description": "Returns the serial ports on the host, the configured port and the last port that passed a connection test",
                "produces": ["application/json"],
                "tags": ["serial"],
                "summary": "List serial ports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PortsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "command.Command": {
            "type": "object",
            "properties": {
                "device": {"type": "string"},
                "state": {"type": "boolean"}
            }
        },
        "dispatch.Outcome": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "device": {"type": "string"},
                "error": {"type": "string"},
                "reason": {"type": "string"},
                "simulated": {"type": "boolean"},
                "state": {"type": "boolean"},
                "success": {"type": "boolean"}
            }
        },
        "types.ConnectionTestRequest": {
            "type": "object",
            "properties": {
                "port": {"type": "string"}
            }
        },
        "types.ConnectionTestResponse": {
            "type": "object",
            "properties": {
                "connected": {"type": "boolean"},
                "message": {"type": "string"},
                "port": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "types.DeviceResponse": {
            "type": "object",
            "properties": {
                "device": {"$ref": "#/definitions/types.DeviceWithState"}
            }
        },
        "types.DeviceWithState": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "index": {"type": "integer"},
                "name": {"type": "string"},
                "off_code": {"type": "string"},
                "off_phrase": {"type": "string"},
                "on_code": {"type": "string"},
                "on_phrase": {"type": "string"},
                "simulated": {"type": "boolean"},
                "state": {"type": "string"},
                "state_schema": {"type": "object"},
                "updated_at": {"type": "string"}
            }
        },
        "types.DispatchRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string"}
            }
        },
        "types.DispatchResponse": {
            "type": "object",
            "properties": {
                "actuator": {"type": "string"},
                "commands": {"type": "array", "items": {"$ref": "#/definitions/command.Command"}},
                "created_at": {"type": "string"},
                "error": {"type": "string"},
                "id": {"type": "string"},
                "outcomes": {"type": "array", "items": {"$ref": "#/definitions/dispatch.Outcome"}},
                "prompt": {"type": "string"},
                "reply": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "actuator": {"type": "string"},
                "reachable": {"type": "boolean"},
                "simulated": {"type": "boolean"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "types.HistoryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "dispatches": {"type": "array", "items": {"$ref": "#/definitions/types.DispatchResponse"}},
                "total": {"type": "integer"}
            }
        },
        "types.ListDevicesResponse": {
            "type": "object",
            "properties": {
                "active": {"type": "integer"},
                "count": {"type": "integer"},
                "devices": {"type": "array", "items": {"$ref": "#/definitions/types.DeviceWithState"}}
            }
        },
        "types.PortInfo": {
            "type": "object",
            "properties": {
                "is_usb": {"type": "boolean"},
                "name": {"type": "string"},
                "pid": {"type": "string"},
                "product": {"type": "string"},
                "vid": {"type": "string"}
            }
        },
        "types.PortsResponse": {
            "type": "object",
            "properties": {
                "configured": {"type": "string"},
                "ports": {"type": "array", "items": {"$ref": "#/definitions/types.PortInfo"}},
                "selected": {"type": "string"}
            }
        },
        "types.SetStateRequest": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "ON"}
            }
        },
        "types.StateResponse": {
            "type": "object",
            "properties": {
                "device": {"type": "string"},
                "outcome": {"$ref": "#/definitions/dispatch.Outcome"},
                "state": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "NeuraControl API",
	Description:      "Natural-language control of microcontroller-driven home devices",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
