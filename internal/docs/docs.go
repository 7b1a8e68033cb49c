// Package docs registers the OpenAPI spec served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/badges": {
            "get": {
                "tags": ["badges"],
                "summary": "List badges",
                "description": "Returns a company's badges in rank order (lowest order first)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "company_id", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "tags": ["badges"],
                "summary": "Create a badge",
                "description": "Creates a badge at the end of the company's ranking. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            },
            "patch": {
                "tags": ["badges"],
                "summary": "Reorder badges",
                "description": "Replaces the company's badge ordering; position in the list becomes the badge's order. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            }
        },
        "/badges/{badgeID}": {
            "get": {
                "tags": ["badges"],
                "summary": "Get a badge",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "badgeID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "tags": ["badges"],
                "summary": "Update a badge",
                "description": "Merges the provided fields over the badge; omitted fields, including order, are preserved. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "badgeID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["badges"],
                "summary": "Delete a badge",
                "description": "Removes the badge and every assignment referencing it. Admin only.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "badgeID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/badges/assign": {
            "post": {
                "tags": ["badges"],
                "summary": "Assign a badge",
                "description": "Grants a badge to a user. Idempotent on the (badge, user, company) triple. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/badges/unassign": {
            "post": {
                "tags": ["badges"],
                "summary": "Unassign a badge",
                "description": "Revokes a badge from a user. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/badges/assign-by-email": {
            "post": {
                "tags": ["badges"],
                "summary": "Assign a badge by email",
                "description": "Resolves a company member by email through the directory and grants them the badge. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/{userID}/badges": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user's badges",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "userID", "in": "path", "required": true},
                    {"type": "string", "name": "company_id", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/users/{userID}/admin": {
            "get": {
                "tags": ["users"],
                "summary": "Get admin status",
                "description": "Reports whether the authenticated user is an admin of the company. Only answers for the caller's own id.",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "userID", "in": "path", "required": true},
                    {"type": "string", "name": "company_id", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["leaderboard"],
                "summary": "Get the leaderboard",
                "description": "Returns the company's members ranked by badge value; the calling user is always included",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "company_id", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "BadgeHub API",
	Description:      "Community badge service: tenant-scoped badges, assignments, and leaderboards",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
