// Package docs holds the OpenAPI document served under /swagger. It is
// maintained by hand in the swag template layout; running
// swag init -g cmd/server/main.go regenerates it from the handler annotations.
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
        "/admin/seed/restaurants": {
            "post": {
                "description": "Inserts the sample restaurants when none exist. Count is zero otherwise.",
                "produces": ["application/json"],
                "tags": ["seed"],
                "summary": "Seed sample restaurants",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SeedResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create user",
                "parameters": [
                    {"description": "User payload", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/users/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Update user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/authenticate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue a login challenge",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChallengeResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with a signed challenge",
                "parameters": [
                    {"description": "Signed challenge", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ProofRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/authenticate/login": {
            "post": {
                "description": "Sets an HttpOnly session cookie on success.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with username and password",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/authenticate/logout": {
            "get": {
                "description": "Clears the session cookie. Requires the cookie to be present.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StatusResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/authenticate/protected": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Show the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProtectedResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/generate-key": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["util"],
                "summary": "Generate a signing key",
                "parameters": [
                    {"description": "Key length in bytes (32-128, default 64)", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handler.GenerateKeyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GenerateKeyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/hash-password": {
            "post": {
                "description": "Returns an argon2id hash suitable for seeding the user store.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["util"],
                "summary": "Hash a password",
                "parameters": [
                    {"description": "Password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.HashPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HashPasswordResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/menu/item/{itemId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["restaurants"],
                "summary": "Get a menu item",
                "parameters": [
                    {"type": "string", "description": "Menu item ID", "name": "itemId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.MenuItem"}}}
                }
            }
        },
        "/menu/{restaurantId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["restaurants"],
                "summary": "Get a restaurant menu",
                "parameters": [
                    {"type": "string", "description": "Restaurant ID", "name": "restaurantId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.MenuItem"}}}
                }
            }
        },
        "/restaurants": {
            "get": {
                "description": "Seeds sample restaurants on first access to an empty store.",
                "produces": ["application/json"],
                "tags": ["restaurants"],
                "summary": "List restaurants",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Restaurant"}}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "produces": ["application/json"],
                "tags": ["util"],
                "summary": "Show version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.Claims": {
            "type": "object",
            "properties": {
                "exp": {"type": "integer"},
                "iat": {"type": "integer"},
                "id": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "sub": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.ChallengeResponse": {
            "type": "object",
            "properties": {"challenge": {"type": "string"}}
        },
        "handler.CreateUserRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "minLength": 8},
                "publicKey": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string", "maxLength": 64, "minLength": 3}
            }
        },
        "handler.GenerateKeyRequest": {
            "type": "object",
            "properties": {"length": {"type": "integer"}}
        },
        "handler.GenerateKeyResponse": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "key": {"type": "string"},
                "length": {"type": "integer"},
                "usage": {"type": "string"}
            }
        },
        "handler.HashPasswordRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {"password": {"type": "string"}}
        },
        "handler.HashPasswordResponse": {
            "type": "object",
            "properties": {
                "algorithm": {"type": "string"},
                "hash": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.MenuItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.ProofRequest": {
            "type": "object",
            "required": ["challenge", "signature", "username"],
            "properties": {
                "challenge": {"type": "string"},
                "signature": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.ProtectedResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/auth.Claims"}}
        },
        "handler.SeedResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "handler.SessionResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/handler.SessionUser"},
                "success": {"type": "boolean"}
            }
        },
        "handler.SessionUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        },
        "handler.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "publicKey": {"type": "string"},
                "roles": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "username": {"type": "string", "maxLength": 64, "minLength": 3}
            }
        },
        "handler.UserListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.User"}},
                "success": {"type": "boolean"}
            }
        },
        "handler.UserResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/model.User"},
                "success": {"type": "boolean"}
            }
        },
        "handler.VersionResponse": {
            "type": "object",
            "properties": {
                "production": {"type": "boolean"},
                "version": {"type": "string"}
            }
        },
        "model.Restaurant": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "createdAt": {"type": "string"},
                "cuisine": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "createdBy": {"type": "string"},
                "id": {"type": "string"},
                "publicKey": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "updatedAt": {"type": "string"},
                "updatedBy": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Foodie API",
	Description:      "Restaurant listing API with cookie sessions, an admin user directory, response caching and rate limiting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
