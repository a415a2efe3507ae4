package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/notes": {
            "get": {
                "tags": ["notes"],
                "summary": "List a user's notes",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "userId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Note"}}},
                    "400": {"description": "Missing userId", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["notes"],
                "summary": "Create a note",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "note", "required": true, "schema": {"$ref": "#/definitions/Note"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Note"}},
                    "400": {"description": "Missing required fields", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/notes/{id}": {
            "get": {
                "tags": ["notes"],
                "summary": "Get a note",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Note"}},
                    "404": {"description": "Note not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["notes"],
                "summary": "Merge fields into a note",
                "description": "id and createdAt cannot be changed. Returns the stored note.",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Note"}},
                    "400": {"description": "Invalid fields", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Note not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["notes"],
                "summary": "Delete a note",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Note not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["tasks"],
                "summary": "List a user's tasks",
                "parameters": [{"in": "query", "name": "userId", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Task"}}},
                    "400": {"description": "Missing userId", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [{"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/Task"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Task"}},
                    "400": {"description": "Invalid fields", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["tasks"],
                "summary": "Merge fields into a task",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Create a user",
                "description": "The password is stored as a bcrypt hash and never returned.",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/NewUser"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Profile"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["users"],
                "summary": "Merge fields into a user",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "tags": ["users"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "401": {"description": "Invalid email or password!", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Note": {
            "type": "object",
            "required": ["userId", "title", "content"],
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "pinned": {"type": "boolean"},
                "color": {"type": "string", "example": "#ffffff"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string", "format": "date-time"},
                "completed": {"type": "boolean"},
                "color": {"type": "string", "example": "#ffffff"}
            }
        },
        "NewUser": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "SmartNote API",
	Description:      "Notes, tasks and users for the SmartNote client",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
