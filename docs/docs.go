// Package docs registers the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@skinx.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.MeResponse"}},
                    "401": {"description": "Missing, invalid or expired token", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.Response"}}
                }
            }
        },
        "/posts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "string", "description": "Exact tag match", "name": "tag", "in": "query"},
                    {"type": "string", "description": "Case-insensitive search in title and content", "name": "q", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/post.ListResult"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {
                        "description": "Post",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/post.CreatePostRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/post.Post"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/post.Post"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Update a post",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/post.UpdatePostRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/post.Post"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "403": {"description": "You can only update your own posts", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "You can only delete your own posts", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "auth.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "auth.Session": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/auth.UserResponse"}
            }
        },
        "auth.MeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "database": {"type": "string"},
                "error": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "post.CreatePostRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 200, "minLength": 1},
                "content": {"type": "string", "maxLength": 10000, "minLength": 1},
                "tags": {"type": "array", "maxItems": 10, "items": {"type": "string"}}
            }
        },
        "post.UpdatePostRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 200, "minLength": 1},
                "content": {"type": "string", "maxLength": 10000, "minLength": 1},
                "tags": {"type": "array", "maxItems": 10, "items": {"type": "string"}}
            }
        },
        "post.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "postedAt": {"type": "string"},
                "postedBy": {"type": "string"},
                "authorId": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "post.ListResult": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/post.Post"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "Blog posts with email/password accounts and bearer token authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
