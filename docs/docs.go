// Package docs содержит описание HTTP API в формате Swagger 2.0 для /docs.
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
        "/api/auth/login": {
            "post": {
                "description": "Проверяет имя и пароль, открывает сессию (cookie JSESSIONID) и возвращает сведения о пользователе.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход пользователя",
                "parameters": [
                    {
                        "description": "Учётные данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/login.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "Успешный вход", "schema": {"$ref": "#/definitions/login.Response"}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.Failure"}},
                    "401": {"description": "Неверное имя пользователя или пароль", "schema": {"$ref": "#/definitions/response.Failure"}},
                    "429": {"description": "Слишком много попыток", "schema": {"$ref": "#/definitions/response.Failure"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.Failure"}}
                }
            }
        },
        "/api/auth/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["Auth"],
                "summary": "Состояние сервиса аутентификации",
                "responses": {
                    "200": {"description": "Authentication service is running", "schema": {"type": "string"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["Health"],
                "summary": "Проверка состояния",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/api/currency/convert": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["Currency"],
                "summary": "Перевод соль в доллары",
                "parameters": [
                    {"type": "string", "example": "38", "description": "Сумма в PEN", "name": "amount", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Результат конвертации", "schema": {"$ref": "#/definitions/convert.Response"}},
                    "400": {"description": "Некорректная сумма", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.Failure"}}
                }
            }
        },
        "/api/session": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Сведения о текущей сессии",
                "responses": {
                    "200": {"description": "Сессия", "schema": {"$ref": "#/definitions/models.SessionInfo"}},
                    "401": {"description": "Нет сессии"}
                }
            }
        },
        "/api/session/validate": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["Session"],
                "summary": "Проверка сессии",
                "responses": {
                    "200": {"description": "Session is valid", "schema": {"type": "string"}},
                    "401": {"description": "Session is invalid or expired", "schema": {"type": "string"}}
                }
            }
        },
        "/api/session/logout": {
            "post": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Выход",
                "responses": {
                    "200": {"description": "Сессия завершена", "schema": {"$ref": "#/definitions/logout.Response"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.Failure"}}
                }
            }
        },
        "/api/session/user": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Пользователь текущей сессии",
                "responses": {
                    "200": {"description": "Пользователь", "schema": {"$ref": "#/definitions/models.SessionUser"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.Failure"}}
                }
            }
        }
    },
    "definitions": {
        "login.Request": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "password": {"type": "string", "example": "admin123"}
            }
        },
        "login.User": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "email": {"type": "string", "example": "admin@example.com"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "login.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Authentication successful"},
                "user": {"$ref": "#/definitions/login.User"},
                "token": {"type": "string"}
            }
        },
        "convert.Response": {
            "type": "object",
            "properties": {
                "originalAmount": {"type": "number", "example": 38},
                "originalCurrency": {"type": "string", "example": "PEN"},
                "convertedAmount": {"type": "number", "example": 10},
                "targetCurrency": {"type": "string", "example": "USD"},
                "exchangeRate": {"type": "number", "example": 3.8},
                "message": {"type": "string", "example": "Conversion successful"}
            }
        },
        "logout.Response": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Logout successful"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "models.SessionInfo": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "userId": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "createdTime": {"type": "integer"},
                "lastAccessedTime": {"type": "integer"},
                "maxInactiveInterval": {"type": "integer", "example": 1800},
                "isNew": {"type": "boolean"}
            }
        },
        "models.SessionUser": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "enabled": {"type": "boolean"}
            }
        },
        "response.Failure": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string", "example": "Invalid username or password"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Amount cannot be negative"},
                "message": {"type": "string", "example": "Invalid input provided"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "type": "apiKey",
            "name": "JSESSIONID",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo содержит метаданные API, подставляемые в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hexagonal Auth API",
	Description:      "Аутентификация по сессиям и конвертация PEN в USD.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
