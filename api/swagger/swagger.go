package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TutorHive API",
        "description": "Tutoring marketplace booking API",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Tutors", "description": "Tutor directory and search"},
        {"name": "Bookings", "description": "Lesson booking lifecycle"},
        {"name": "Lessons", "description": "Lesson views"},
        {"name": "Availability", "description": "Tutor weekly schedules"},
        {"name": "Reviews", "description": "Tutor reviews and ratings"},
        {"name": "Subjects", "description": "Subject catalogue"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "responses": {
                    "201": {"description": "Account created"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/tutors": {
            "get": {
                "tags": ["Tutors"],
                "summary": "List top-rated tutors",
                "responses": {
                    "200": {"description": "Tutors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutors/search": {
            "get": {
                "tags": ["Tutors"],
                "summary": "Search tutors",
                "parameters": [
                    {"name": "subject_id", "in": "query", "type": "string"},
                    {"name": "min_rate", "in": "query", "type": "number"},
                    {"name": "max_rate", "in": "query", "type": "number"},
                    {"name": "location", "in": "query", "type": "string"},
                    {"name": "min_rating", "in": "query", "type": "number"},
                    {"name": "min_experience", "in": "query", "type": "integer"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Matching tutors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutors/{id}": {
            "get": {
                "tags": ["Tutors"],
                "summary": "Get a tutor profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Profile with subjects and schedule"},
                    "404": {"description": "Tutor not found"}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a lesson",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Booked", "schema": {"$ref": "#/definitions/BookingSuccess"}},
                    "202": {"description": "Slot taken, queued", "schema": {"$ref": "#/definitions/BookingQueued"}},
                    "400": {"description": "Rejected", "schema": {"$ref": "#/definitions/BookingErrors"}}
                }
            }
        },
        "/bookings/{id}": {
            "put": {
                "tags": ["Bookings"],
                "summary": "Reschedule a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Modified", "schema": {"$ref": "#/definitions/BookingSuccess"}},
                    "400": {"description": "Rejected", "schema": {"$ref": "#/definitions/BookingErrors"}}
                }
            },
            "delete": {
                "tags": ["Bookings"],
                "summary": "Cancel a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Canceled and notified"},
                    "500": {"description": "Canceled but notification failed"}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List the caller's lessons",
                "responses": {
                    "200": {"description": "Lessons", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutors/{id}/availabilities": {
            "get": {
                "tags": ["Availability"],
                "summary": "List a tutor's availability windows",
                "responses": {
                    "200": {"description": "Windows"}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace a tutor's weekly schedule",
                "responses": {
                    "200": {"description": "Replaced"},
                    "400": {"description": "Invalid schedule"}
                }
            }
        },
        "/reviews": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Review a tutor",
                "responses": {
                    "201": {"description": "Review saved with fresh aggregate"},
                    "400": {"description": "Invalid rating"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {
                    "200": {"description": "Subjects"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "tutor_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "booking_date": {"type": "string", "example": "2026-09-02"},
                "start_time": {"type": "string", "example": "10:00"},
                "end_time": {"type": "string", "example": "11:00"}
            }
        },
        "BookingSuccess": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "BookingQueued": {
            "type": "object",
            "properties": {
                "queued": {"type": "boolean"},
                "position": {"type": "integer"}
            }
        },
        "BookingErrors": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}}
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
                "pagination": {"type": "object"}
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
