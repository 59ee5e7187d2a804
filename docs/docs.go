// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/token": {
            "post": {
                "summary": "Organiser login",
                "tags": ["auth"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {"200": {"description": "signed JWT"}, "401": {"description": "invalid credentials"}}
            }
        },
        "/brackets": {
            "post": {
                "summary": "Create a bracket",
                "tags": ["brackets"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "bracket", "required": true, "schema": {"$ref": "#/definitions/CreateBracketInput"}}],
                "responses": {"201": {"description": "created bracket"}, "400": {"description": "invalid participants or seeding"}, "422": {"description": "missing fields"}}
            }
        },
        "/brackets/{bracketID}": {
            "get": {
                "summary": "Full bracket state",
                "tags": ["brackets"],
                "parameters": [{"$ref": "#/parameters/bracketID"}],
                "responses": {"200": {"description": "bracket"}, "404": {"description": "unknown bracket"}}
            }
        },
        "/brackets/{bracketID}/matches/ready": {
            "get": {
                "summary": "Matches ready to be played, by id",
                "tags": ["brackets"],
                "parameters": [{"$ref": "#/parameters/bracketID"}],
                "responses": {"200": {"description": "ready matches"}}
            }
        },
        "/brackets/{bracketID}/standings": {
            "get": {
                "summary": "Final standings",
                "tags": ["brackets"],
                "parameters": [{"$ref": "#/parameters/bracketID"}],
                "responses": {"200": {"description": "standings"}, "409": {"description": "bracket still running"}}
            }
        },
        "/brackets/{bracketID}/matches/{matchID}/result": {
            "post": {
                "summary": "Record a match result",
                "tags": ["matches"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/bracketID"},
                    {"$ref": "#/parameters/matchID"},
                    {"in": "body", "name": "result", "required": true, "schema": {"$ref": "#/definitions/Result"}}
                ],
                "responses": {"200": {"description": "outcome"}, "400": {"description": "invalid result"}, "409": {"description": "match not ready"}}
            }
        },
        "/brackets/{bracketID}/matches/{matchID}/validate": {
            "post": {
                "summary": "Validate participant reports",
                "tags": ["matches"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/bracketID"}, {"$ref": "#/parameters/matchID"}],
                "responses": {"200": {"description": "outcome"}, "409": {"description": "missing or disagreeing reports"}}
            }
        },
        "/brackets/{bracketID}/close": {
            "post": {
                "summary": "Stop accepting match results",
                "tags": ["brackets"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/bracketID"}],
                "responses": {"200": {"description": "outcome"}, "409": {"description": "bracket is over"}}
            }
        },
        "/brackets/{bracketID}/open": {
            "post": {
                "summary": "Accept match results again",
                "tags": ["brackets"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/bracketID"}],
                "responses": {"200": {"description": "outcome"}, "409": {"description": "bracket is over"}}
            }
        },
        "/brackets/{bracketID}/participants/{participantID}/disqualify": {
            "post": {
                "summary": "Disqualify a participant",
                "tags": ["participants"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/bracketID"}, {"$ref": "#/parameters/participantID"}],
                "responses": {"200": {"description": "outcome"}, "404": {"description": "unknown participant"}}
            }
        },
        "/brackets/{bracketID}/participants/{participantID}/token": {
            "post": {
                "summary": "Issue a player token",
                "tags": ["participants"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/bracketID"}, {"$ref": "#/parameters/participantID"}],
                "responses": {"201": {"description": "signed JWT for the participant"}}
            }
        },
        "/brackets/{bracketID}/participants/{participantID}/report": {
            "post": {
                "summary": "Report own match result",
                "tags": ["participants"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/bracketID"},
                    {"$ref": "#/parameters/participantID"},
                    {"in": "body", "name": "report", "required": true, "schema": {"$ref": "#/definitions/ReportInput"}}
                ],
                "responses": {"200": {"description": "outcome"}, "403": {"description": "not your match or disqualified"}}
            }
        },
        "/brackets/{bracketID}/participants/{participantID}/next-opponent": {
            "get": {
                "summary": "Next match and opponent",
                "tags": ["participants"],
                "parameters": [{"$ref": "#/parameters/bracketID"}, {"$ref": "#/parameters/participantID"}],
                "responses": {"200": {"description": "next match"}, "409": {"description": "no match to play"}}
            }
        },
        "/brackets/{bracketID}/participants/{participantID}/matches": {
            "get": {
                "summary": "Matches of a participant",
                "tags": ["participants"],
                "parameters": [{"$ref": "#/parameters/bracketID"}, {"$ref": "#/parameters/participantID"}],
                "responses": {"200": {"description": "matches"}}
            }
        }
    },
    "parameters": {
        "bracketID": {"name": "bracketID", "in": "path", "required": true, "type": "string"},
        "matchID": {"name": "matchID", "in": "path", "required": true, "type": "integer"},
        "participantID": {"name": "participantID", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "LoginInput": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "password": {"type": "string"}}
        },
        "Participant": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "seed": {"type": "integer"}}
        },
        "Settings": {
            "type": "object",
            "properties": {
                "max_score": {"type": "integer"},
                "forfeit_score": {"type": "integer"},
                "validation_mode": {"type": "string", "enum": ["strict", "flexible", "lax"]},
                "rematch_policy": {"type": "string", "enum": ["minimize", "allow"]},
                "seeding_method": {"type": "string", "enum": ["strict", "random"]}
            }
        },
        "CreateBracketInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "format": {"type": "string", "enum": ["SingleElimination", "DoubleElimination"]},
                "participants": {"type": "array", "items": {"$ref": "#/definitions/Participant"}},
                "seeding": {"type": "array", "items": {"type": "string"}},
                "settings": {"$ref": "#/definitions/Settings"}
            }
        },
        "Result": {
            "type": "object",
            "properties": {"score1": {"type": "integer"}, "score2": {"type": "integer"}}
        },
        "ReportInput": {
            "type": "object",
            "properties": {"own_score": {"type": "integer"}, "opponent_score": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bracket Engine API",
	Description:      "Single and double elimination bracket progression.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
