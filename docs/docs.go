// Package docs holds the OpenAPI document of the Energy Policy Index API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Custodia Labs",
            "url": "https://github.com/custodia-labs/energy-index/issues"
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
        "/auth/login": {
            "post": {
                "description": "Authenticate with username and password to receive a JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/reports/{corpus}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the latest Energy Policy Index report of a corpus",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Get index report",
                "parameters": [
                    {"type": "string", "description": "Corpus name", "name": "corpus", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PolicyIndexReport"}},
                    "404": {"description": "No report for corpus", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/frequencies/{corpus}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the latest n-gram frequency table of a corpus",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Get n-gram frequencies",
                "parameters": [
                    {"type": "string", "description": "Corpus name", "name": "corpus", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "N-gram size", "name": "n", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Keep only the most frequent entries (0 = all)", "name": "top", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.FrequencyTable"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "No table for corpus", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns a persisted analysis run",
                "produces": ["application/json"],
                "tags": ["Runs"],
                "summary": "Get run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Run"}},
                    "404": {"description": "Run not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs the full analysis of a configured corpus and waits for the result (admin only). The path parameter is the corpus name.",
                "produces": ["application/json"],
                "tags": ["Runs"],
                "summary": "Run analysis",
                "parameters": [
                    {"type": "string", "description": "Configured corpus name", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RunResult"}},
                    "403": {"description": "Admin access required", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Corpus not configured", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Run already in progress", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/score": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Computes the Energy Policy Index of ad-hoc text with the configured keywords",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Score text",
                "parameters": [
                    {
                        "description": "Text to score",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.ScoreRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.DensityResult"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "domain.IndexRecord": {
            "type": "object",
            "properties": {
                "Bill ID": {"type": "string"},
                "Description": {"type": "string"},
                "Chamber": {"type": "string"},
                "Created date": {"type": "string"},
                "Energy Policy Index": {"type": "number"},
                "url": {"type": "string"}
            }
        },
        "domain.ReportStats": {
            "type": "object",
            "properties": {
                "documents_scored": {"type": "integer"},
                "documents_skipped": {"type": "integer"},
                "empty_documents": {"type": "integer"},
                "mean_score": {"type": "number"},
                "max_score": {"type": "number"}
            }
        },
        "domain.PolicyIndexReport": {
            "type": "object",
            "properties": {
                "corpus": {"type": "string"},
                "records": {"type": "array", "items": {"$ref": "#/definitions/domain.IndexRecord"}},
                "stats": {"$ref": "#/definitions/domain.ReportStats"}
            }
        },
        "domain.FrequencyEntry": {
            "type": "object",
            "properties": {
                "ngram": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "domain.FrequencyTable": {
            "type": "object",
            "properties": {
                "corpus": {"type": "string"},
                "n": {"type": "integer"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.FrequencyEntry"}}
            }
        },
        "domain.DensityResult": {
            "type": "object",
            "properties": {
                "score": {"type": "number"},
                "hits": {"type": "integer"},
                "windows": {"type": "integer"},
                "tokens": {"type": "integer"}
            }
        },
        "domain.Run": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "corpus": {"type": "string"},
                "status": {"type": "string", "enum": ["running", "completed", "failed"]},
                "stats": {"$ref": "#/definitions/domain.ReportStats"},
                "artifacts": {
                    "type": "object",
                    "properties": {
                        "report_path": {"type": "string"},
                        "chart_paths": {"type": "array", "items": {"type": "string"}}
                    }
                },
                "error": {"type": "string"},
                "started_at": {"type": "string"},
                "completed_at": {"type": "string"}
            }
        },
        "domain.RunResult": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "corpus": {"type": "string"},
                "success": {"type": "boolean"},
                "stats": {"$ref": "#/definitions/domain.ReportStats"},
                "error": {"type": "string"},
                "duration": {"type": "integer"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"}
            }
        },
        "http.ScoreRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Bearer token. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Energy Policy Index API",
	Description:      "Keyword density index of state energy legislation, with n-gram frequency tables.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
