package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SkyHarbor FleetOps API",
        "description": "Flight timetable, crew roster, and aircraft maintenance operations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Role-scoped login and token lifecycle"},
        {"name": "Scheduler", "description": "Flight timetable and crew rosters"},
        {"name": "Crew", "description": "A crew member's own schedule"},
        {"name": "Engineer", "description": "Maintenance jobs, parts, and reports"},
        {"name": "Admin", "description": "Fleet, catalog, and account administration"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Token revoked or expired"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke a refresh token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/scheduler/flights": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List flights",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scheduler"],
                "summary": "Schedule a flight",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFlightRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduling conflict"}
                }
            }
        },
        "/scheduler/flights/{number}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Get a flight",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown flight"}
                }
            },
            "put": {
                "tags": ["Scheduler"],
                "summary": "Update a flight",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateFlightRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduling conflict"}
                }
            },
            "delete": {
                "tags": ["Scheduler"],
                "summary": "Delete a flight",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/scheduler/flights/{number}/crew": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List flight crew",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scheduler"],
                "summary": "Assign flight crew",
                "parameters": [
                    {"name": "number", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignCrewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Roster conflict"}
                }
            }
        },
        "/scheduler/flights/export": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Export the timetable as CSV",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/scheduler/dashboard": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Scheduler dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/crew/my-flights": {
            "get": {
                "tags": ["Crew"],
                "summary": "List my flights",
                "parameters": [
                    {"name": "upcoming", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/crew/dashboard": {
            "get": {
                "tags": ["Crew"],
                "summary": "Crew dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/engineer/jobs": {
            "get": {
                "tags": ["Engineer"],
                "summary": "List my jobs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Engineer"],
                "summary": "Open a maintenance job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenJobRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Aircraft unavailable"}
                }
            }
        },
        "/engineer/jobs/{id}/close": {
            "post": {
                "tags": ["Engineer"],
                "summary": "Close a job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Caller is not the job leader"}
                }
            }
        },
        "/engineer/aircraft/{registration}/maintenance-log": {
            "get": {
                "tags": ["Engineer"],
                "summary": "Download the maintenance log as PDF",
                "parameters": [
                    {"name": "registration", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/admin/aircraft": {
            "get": {
                "tags": ["Admin"],
                "summary": "List aircraft",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Register an aircraft",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "post": {
                "tags": ["Admin"],
                "summary": "Provision a user account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate email"}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "SCHEDULER", "CREW", "ENGINEER"]}
            },
            "required": ["email", "password", "role"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateFlightRequest": {
            "type": "object",
            "properties": {
                "flight_number": {"type": "string"},
                "route_id": {"type": "integer"},
                "date": {"type": "string"},
                "scheduled_departure_time": {"type": "string"},
                "scheduled_arrival_time": {"type": "string"},
                "aircraft_registration": {"type": "string"}
            },
            "required": ["flight_number", "route_id", "date", "scheduled_departure_time", "scheduled_arrival_time", "aircraft_registration"]
        },
        "UpdateFlightRequest": {
            "type": "object",
            "properties": {
                "flight_number": {"type": "string"},
                "route_id": {"type": "integer"},
                "date": {"type": "string"},
                "scheduled_departure_time": {"type": "string"},
                "scheduled_arrival_time": {"type": "string"},
                "aircraft_registration": {"type": "string"}
            }
        },
        "AssignCrewRequest": {
            "type": "object",
            "properties": {
                "crew": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["crew"]
        },
        "OpenJobRequest": {
            "type": "object",
            "properties": {
                "aircraft_registration": {"type": "string"},
                "type": {"type": "string", "enum": ["routine", "inspection", "repair", "overhaul"]},
                "remarks": {"type": "string"}
            },
            "required": ["aircraft_registration", "type"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
