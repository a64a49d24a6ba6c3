// Swagger document for the routes in internal/handlers. Keep in sync with the handler annotations.

package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.one-green.io/support",
            "email": "support@one-green.io"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/articles": {
            "get": {
                "description": "Paginated history of every article relayed to a client, newest first",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "List generated articles",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/articles/export": {
            "get": {
                "description": "Download the article history, optionally limited to one generation call",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["articles"],
                "summary": "Export generated articles to Excel",
                "parameters": [
                    {"type": "string", "description": "Generation ID", "name": "generation_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Excel file", "schema": {"type": "file"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/post-to-wordpress": {
            "post": {
                "description": "Converts Markdown content to HTML and creates a post through the WordPress REST API",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wordpress"],
                "summary": "Publish an article to WordPress",
                "parameters": [
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PostToWordPressRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.PostToWordPressResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/generate-articles": {
            "get": {
                "description": "Streams one ` + "`" + `message` + "`" + ` event per generated article and one ` + "`" + `end` + "`" + ` event per keyword via SSE",
                "produces": ["text/event-stream"],
                "tags": ["articles"],
                "summary": "Generate articles for comma separated keywords",
                "parameters": [
                    {"type": "string", "example": "猫,犬", "description": "Comma separated keywords", "name": "query", "in": "query", "required": true},
                    {"type": "string", "example": "draft", "description": "draft, publish or demo", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "SSE stream"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/settings": {
            "get": {
                "description": "Return the current prompt, upstream and WordPress settings",
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Settings"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "description": "Replace all settings. Missing keys are stored as empty strings.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Save settings",
                "parameters": [
                    {"description": "Settings", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Settings"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SettingsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.PostToWordPressRequest": {
            "type": "object",
            "properties": {
                "application_password": {"type": "string", "example": "abcd efgh ijkl mnop"},
                "content": {"type": "string", "example": "# 見出し\\n本文"},
                "siteurl": {"type": "string", "example": "https://example.com"},
                "status": {"type": "string", "example": "draft"},
                "title": {"type": "string", "example": "猫の飼い方"},
                "wordpress_username": {"type": "string", "example": "editor"}
            }
        },
        "models.PostToWordPressResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string", "example": "Post created successfully"}
            }
        },
        "models.Settings": {
            "type": "object",
            "properties": {
                "api_endpoint": {"type": "string", "example": "https://api.dify.ai/v1/chat-messages"},
                "api_key": {"type": "string", "example": "app-xxxxxxxx"},
                "application_password": {"type": "string", "example": "abcd efgh ijkl mnop"},
                "content_prompt": {"type": "string", "example": "文章量は必ず2000文字以上にしてください"},
                "keyword_generator_url": {"type": "string"},
                "rakkokeyword_url": {"type": "string"},
                "siteurl": {"type": "string", "example": "https://example.com"},
                "title_prompt": {"type": "string", "example": "タイトルには「？」を含めてください"},
                "variable1": {"type": "string"},
                "variable2": {"type": "string"},
                "wordpress_username": {"type": "string", "example": "editor"},
                "x_server_url": {"type": "string"}
            }
        },
        "models.SettingsResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Settings updated successfully"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Keyword Article Proxy API",
	Description:      "Streams AI generated articles per keyword and publishes them to WordPress",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
