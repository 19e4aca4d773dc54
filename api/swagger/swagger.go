package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Derece API",
        "description": "Schedule assistant and coaching API for YKS students",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Assistant", "description": "Tool-calling schedule assistant chat"},
        {"name": "Coach", "description": "Read-only coaching chat"},
        {"name": "Program", "description": "Schedule read API and completion toggles"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/assistant/messages": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Send a message to the program assistant",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Assistant unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Assistant"],
                "summary": "List assistant conversation",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/coach/messages": {
            "post": {
                "tags": ["Coach"],
                "summary": "Send a message to the coach",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Coach unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Coach"],
                "summary": "List one day's coach conversation",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/program/entries": {
            "get": {
                "tags": ["Program"],
                "summary": "List schedule entries for one date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/program/week": {
            "get": {
                "tags": ["Program"],
                "summary": "List schedule entries for the week containing a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/program/dates": {
            "get": {
                "tags": ["Program"],
                "summary": "List distinct dates holding entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/program/entries/{id}/complete": {
            "patch": {
                "tags": ["Program"],
                "summary": "Mark an entry completed or pending",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetCompletedRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/program/reset": {
            "post": {
                "tags": ["Program"],
                "summary": "Archive the active program and start a fresh one",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SendMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "session_date": {"type": "string"}
            },
            "required": ["message"]
        },
        "SendMessageResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "string"}
            }
        },
        "SetCompletedRequest": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"}
            }
        },
        "ProgramEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "program_id": {"type": "string"},
                "session_date": {"type": "string"},
                "day_index": {"type": "integer"},
                "slot_index": {"type": "integer"},
                "duration_minutes": {"type": "integer"},
                "activity_type": {"type": "string"},
                "topic_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "resource_id": {"type": "string"},
                "is_completed": {"type": "boolean"},
                "subject": {"type": "string"},
                "title": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ChatMessage": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "program_id": {"type": "string"},
                "kind": {"type": "string"},
                "role": {"type": "string"},
                "content": {"type": "string"},
                "session_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "Program": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "status": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
