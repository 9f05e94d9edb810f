// Package docs содержит swagger-спецификацию API.
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
        "/api/v1/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Регистрация аккаунта",
                "parameters": [
                    {"description": "email, password, role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Пользователь создан", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Email уже занят", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Вход по email и паролю",
                "parameters": [
                    {"description": "email, password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "token и user", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/v1/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Список турниров",
                "parameters": [
                    {"type": "string", "name": "sport", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "location", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Список турниров", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Создать турнир",
                "responses": {
                    "201": {"description": "Турнир создан", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Нет прав (не организатор)", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/v1/tournaments/{tournamentID}/bracket": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Предварительная сетка турнира",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Сетка", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Мало команд или формат без сетки", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Турнир не найден", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/functions/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["functions"],
                "summary": "Прокси к чат-модели",
                "parameters": [
                    {"description": "messages, tournament_context, tournament_id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ChatInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ChatReply"}},
                    "400": {"description": "Некорректные сообщения", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "500": {"description": "Ошибка upstream или чат не настроен", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/functions/cleanup": {
            "post": {
                "produces": ["application/json"],
                "tags": ["functions"],
                "summary": "Очистка устаревших записей",
                "responses": {
                    "200": {"description": "deleted_count", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Неверный токен", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "500": {"description": "Процедура завершилась ошибкой", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/v1/notifications/counts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Счётчики уведомлений",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.NotificationCounts"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.errorBody": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "services.RegisterInput": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string"}}
        },
        "services.LoginInput": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "services.ChatInput": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "tournament_context": {"type": "object", "additionalProperties": true},
                "tournament_id": {"type": "integer"}
            }
        },
        "models.ChatReply": {
            "type": "object",
            "properties": {"reply": {"type": "string"}, "model": {"type": "string"}}
        },
        "models.NotificationCounts": {
            "type": "object",
            "properties": {
                "connection_requests": {"type": "integer"},
                "team_invitations": {"type": "integer"},
                "join_requests": {"type": "integer"},
                "total": {"type": "integer"}
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
	Title:            "Sportshive API",
	Description:      "Профили, команды, турниры и связи между спортсменами.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
