// Package docs registers the swagger document served at /swagger when
// running locally. Regenerate with `swag init` after changing the
// controller annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/vote": {
            "post": {
                "security": [{"SessionToken": []}],
                "tags": ["voting"],
                "summary": "Cast a vote",
                "responses": {
                    "200": {"description": "Vote receipt"},
                    "400": {"description": "Invalid payload or candidate"},
                    "401": {"description": "Not logged in"},
                    "403": {"description": "Election not active"},
                    "404": {"description": "Election not found"},
                    "409": {"description": "Already voted"},
                    "500": {"description": "Unexpected internal error"}
                }
            }
        },
        "/api/vote/status": {
            "get": {
                "security": [{"SessionToken": []}],
                "tags": ["voting"],
                "summary": "Check vote status",
                "responses": {
                    "200": {"description": "Voted elections"},
                    "401": {"description": "Not logged in"}
                }
            }
        },
        "/api/admin/elections": {
            "post": {
                "security": [{"SessionToken": []}],
                "tags": ["admin"],
                "summary": "Create an election",
                "responses": {
                    "201": {"description": "Election created"},
                    "400": {"description": "Invalid election details"},
                    "403": {"description": "Admin privileges required"}
                }
            }
        },
        "/api/admin/elections/{id}/cancel": {
            "post": {
                "security": [{"SessionToken": []}],
                "tags": ["admin"],
                "summary": "Cancel an election",
                "responses": {
                    "200": {"description": "Election cancelled"},
                    "404": {"description": "Election not found"},
                    "409": {"description": "Already cancelled"}
                }
            }
        },
        "/api/elections": {
            "get": {
                "security": [{"SessionToken": []}],
                "tags": ["elections"],
                "summary": "List elections by status",
                "responses": {
                    "200": {"description": "Election summaries"}
                }
            }
        },
        "/api/results/{id}": {
            "get": {
                "tags": ["results"],
                "summary": "Get election results",
                "responses": {
                    "200": {"description": "Ranked tally"},
                    "404": {"description": "Election not found"}
                }
            }
        }
    },
    "securityDefinitions": {
        "SessionToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Campus E-Voting Platform API",
	Description:      "Backend API for student elections: vote casting, admin election management and live results",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
