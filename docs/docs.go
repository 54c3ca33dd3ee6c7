// Package docs registers the surveyflow OpenAPI document with swag.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Host login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/surveys": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "List the host's surveys",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "Create a survey definition",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.Survey"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/surveys/{surveyId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "Get a survey definition",
                "parameters": [{"type": "string", "name": "surveyId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Survey"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "Replace a survey definition",
                "parameters": [
                    {"type": "string", "name": "surveyId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.Survey"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Survey"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "Delete a survey definition",
                "parameters": [{"type": "string", "name": "surveyId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/surveys/{surveyId}/responses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "List submitted responses",
                "parameters": [
                    {"type": "string", "name": "surveyId", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["responses"],
                "summary": "Start a response session",
                "parameters": [
                    {"type": "string", "name": "surveyId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/handler.StartRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.StartResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/surveys/{surveyId}/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["surveys"],
                "summary": "Session counters for a survey",
                "parameters": [{"type": "string", "name": "surveyId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SurveyStats"}}}
            }
        },
        "/responses/{responseId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Current session view",
                "parameters": [{"type": "string", "name": "responseId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}}}
            }
        },
        "/responses/{responseId}/answers/{questionId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Record an answer",
                "parameters": [
                    {"type": "string", "name": "responseId", "in": "path", "required": true},
                    {"type": "string", "name": "questionId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Clear an answer",
                "parameters": [
                    {"type": "string", "name": "responseId", "in": "path", "required": true},
                    {"type": "string", "name": "questionId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}}}
            }
        },
        "/responses/{responseId}/answers/{questionId}/skip": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Skip a question",
                "parameters": [
                    {"type": "string", "name": "responseId", "in": "path", "required": true},
                    {"type": "string", "name": "questionId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}}}
            }
        },
        "/responses/{responseId}/validate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Dry-run validation",
                "parameters": [{"type": "string", "name": "responseId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ValidateResponse"}}}
            }
        },
        "/responses/{responseId}/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Submit a response",
                "parameters": [{"type": "string", "name": "responseId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/responses/{responseId}/abandon": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["responses"],
                "summary": "Abandon a response",
                "parameters": [{"type": "string", "name": "responseId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "violations": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "handler.StartRequest": {
            "type": "object",
            "properties": {"respondentId": {"type": "string"}}
        },
        "handler.AnswerRequest": {
            "type": "object",
            "properties": {"value": {"description": "string, number, list of strings or row to column object"}}
        },
        "handler.ValidateResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "violations": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "hostId": {"type": "string"}}
        },
        "model.Condition": {
            "type": "object",
            "properties": {
                "sourceQuestionId": {"type": "string"},
                "operator": {"type": "string", "enum": ["equals", "notEquals", "contains", "notContains", "greaterThan", "lessThan", "greaterThanOrEqual", "lessThanOrEqual", "in", "notIn", "answered", "notAnswered", "expression"]},
                "value": {}
            }
        },
        "model.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["single_choice", "multi_choice", "scale", "rating", "text", "matrix"]},
                "prompt": {"type": "string"},
                "required": {"type": "boolean"},
                "options": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "string"}},
                "scaleMin": {"type": "number"},
                "scaleMax": {"type": "number"},
                "scaleStep": {"type": "number"},
                "conditions": {"type": "array", "items": {"$ref": "#/definitions/model.Condition"}},
                "combinator": {"type": "string", "enum": ["and", "or"]},
                "validation": {"type": "object"}
            }
        },
        "model.QuestionGroup": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/model.Question"}},
                "conditions": {"type": "array", "items": {"$ref": "#/definitions/model.Condition"}},
                "combinator": {"type": "string", "enum": ["and", "or"]}
            }
        },
        "model.Survey": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "hostId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/model.QuestionGroup"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Progress": {
            "type": "object",
            "properties": {
                "visibleCount": {"type": "integer"},
                "answeredCount": {"type": "integer"},
                "requiredCount": {"type": "integer"},
                "requiredAnsweredCount": {"type": "integer"},
                "percent": {"type": "integer"},
                "isComplete": {"type": "boolean"}
            }
        },
        "model.Answer": {
            "type": "object",
            "properties": {
                "questionId": {"type": "string"},
                "value": {},
                "skipped": {"type": "boolean"},
                "answeredAt": {"type": "string"}
            }
        },
        "model.SessionView": {
            "type": "object",
            "properties": {
                "responseId": {"type": "string"},
                "surveyId": {"type": "string"},
                "status": {"type": "string", "enum": ["not_started", "in_progress", "submitted", "abandoned"]},
                "progress": {"$ref": "#/definitions/model.Progress"},
                "visibleGroups": {"type": "array", "items": {"type": "string"}},
                "visibleQuestions": {"type": "array", "items": {"type": "string"}},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/model.Answer"}}
            }
        },
        "model.StartResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "session": {"$ref": "#/definitions/model.SessionView"}
            }
        },
        "model.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "surveyId": {"type": "string"},
                "respondentId": {"type": "string"},
                "status": {"type": "string"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/model.Answer"}},
                "totalQuestions": {"type": "integer"},
                "visibleCount": {"type": "integer"},
                "answeredCount": {"type": "integer"},
                "startedAt": {"type": "string"},
                "submittedAt": {"type": "string"},
                "durationMs": {"type": "integer"}
            }
        },
        "model.SurveyStats": {
            "type": "object",
            "properties": {
                "surveyId": {"type": "string"},
                "started": {"type": "integer"},
                "submitted": {"type": "integer"},
                "abandoned": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "surveyflow API",
	Description:      "Conditional surveys with live progress for hosts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
