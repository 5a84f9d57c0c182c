// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package docs registers the OpenAPI 2.0 description of the HTTP API with
// swag. It mirrors the @-annotations on the handlers in internal/api and is
// rewritten by `swag init` (see cmd/server/docs.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/news/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Search articles",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "query", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number (1-1000)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size (1-100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Search results", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/news/trending": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Trending headlines",
                "parameters": [
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number (1-1000)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size (1-100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Headlines", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/news/topics/{topic}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Articles for one topic",
                "parameters": [
                    {"type": "string", "description": "Topic name", "name": "topic", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number (1-1000)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size (1-100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Topic page", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/news/articles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["News"],
                "summary": "Get one article",
                "parameters": [
                    {"type": "string", "description": "Article id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Article", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Unknown article", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/news/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend articles",
                "parameters": [
                    {"type": "string", "description": "Seed article id", "name": "article_id", "in": "query"},
                    {"type": "string", "description": "User id", "name": "user_id", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Interests, repeated or comma separated", "name": "user_interests", "in": "query"},
                    {"type": "string", "default": "hybrid", "description": "Algorithm name", "name": "algorithm", "in": "query"},
                    {"type": "string", "description": "Category for trending", "name": "category", "in": "query"},
                    {"type": "integer", "default": 5, "description": "Result count (1-50)", "name": "max_results", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Missing input", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Datastore unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend articles from a JSON body",
                "parameters": [
                    {"description": "Recommendation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.recommendationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recommendations", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Datastore unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/news/algorithms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "List recommendation algorithms",
                "responses": {
                    "200": {"description": "Algorithm catalogue", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/user/interaction": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Record a user interaction",
                "parameters": [
                    {"description": "Interaction", "name": "interaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/interactions.Input"}}
                ],
                "responses": {
                    "200": {"description": "Recorded", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid interaction", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Datastore unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/api/db/init": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Create the database schema",
                "responses": {
                    "200": {"description": "Schema ready", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Datastore unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Datastore unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.recommendationRequest": {
            "type": "object",
            "properties": {
                "article_id": {"type": "string"},
                "user_id": {"type": "string"},
                "user_interests": {"type": "array", "maxItems": 20, "items": {"type": "string"}},
                "algorithm": {"type": "string"},
                "category": {"type": "string"},
                "max_results": {"type": "integer", "minimum": 1, "maximum": 50}
            }
        },
        "recommend.AlgorithmInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "interactions.Input": {
            "type": "object",
            "required": ["article_id", "user_id"],
            "properties": {
                "user_id": {"type": "string"},
                "article_id": {"type": "string"},
                "interaction_type": {"type": "string", "enum": ["view", "like", "share", "bookmark", "read", "click"]},
                "time_spent": {"type": "integer", "minimum": 0},
                "scroll_percentage": {"type": "number", "minimum": 0, "maximum": 100},
                "source_page": {"type": "string"}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "query_time_ms": {"type": "integer"},
                "cached": {"type": "boolean"}
            }
        },
        "models.Article": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "source": {"type": "string"},
                "publishedAt": {"type": "string"},
                "content": {"type": "string"},
                "summary": {"type": "string"},
                "topic": {"type": "string"},
                "imageUrl": {"type": "string"},
                "readTime": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "models.NewsPage": {
            "type": "object",
            "properties": {
                "articles": {"type": "array", "items": {"$ref": "#/definitions/models.Article"}},
                "totalResults": {"type": "integer"},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"}
            }
        },
        "models.RecommendationsResponse": {
            "type": "object",
            "properties": {
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/models.ScoredArticle"}},
                "algorithm": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "database": {"type": "boolean"},
                "cache": {"type": "string"},
                "providers": {"type": "array", "items": {"$ref": "#/definitions/models.ProviderStatus"}}
            }
        },
        "models.ScoredArticle": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/models.Article"}],
            "properties": {
                "score": {"type": "number"}
            }
        },
        "models.InteractionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "interactionId": {"type": "string"}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "models.ProviderStatus": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "calls": {"type": "integer"},
                "limit": {"type": "integer"},
                "remaining": {"type": "integer"},
                "resetsAt": {"type": "string"},
                "circuitOpen": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Headlines API",
	Description:      "News aggregation and recommendation service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
