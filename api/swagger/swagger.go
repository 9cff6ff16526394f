package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Enrollment API",
        "description": "Course enrollment, rosters, grading and registrar operations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student self-service enrollment"},
        {"name": "Faculty", "description": "Rosters and the grading workflow"},
        {"name": "Admin", "description": "Registrar overrides, catalog and reports"}
    ],
    "paths": {
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/enrollments": {
            "post": {
                "tags": ["Students"],
                "summary": "Enroll student in a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student or course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Rejected by a rule (ENROLLMENT_REJECTED)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/enrollments/{courseId}": {
            "delete": {
                "tags": ["Students"],
                "summary": "Drop an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Dropped", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not enrolled (NOT_ENROLLED)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{code}/roster": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Course roster",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/{code}/grades": {
            "get": {
                "tags": ["Faculty"],
                "summary": "List grades of a course",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Faculty"],
                "summary": "Record a grade",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid letter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/{id}": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Get grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/{id}/submit": {
            "post": {
                "tags": ["Faculty"],
                "summary": "Submit a pending grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Grade and transition outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/{id}/approve": {
            "post": {
                "tags": ["Faculty"],
                "summary": "Approve a submitted grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Grade and transition outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grades/{id}/letter": {
            "put": {
                "tags": ["Faculty"],
                "summary": "Change the letter of a pending grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetLetterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Grade already submitted (FINALIZED)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students": {
            "post": {
                "tags": ["Admin"],
                "summary": "Register a student",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/students/{id}/completed-courses": {
            "post": {
                "tags": ["Admin"],
                "summary": "Record a completed course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompletedCourseRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/courses": {
            "post": {
                "tags": ["Admin"],
                "summary": "Register a course",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/courses/{code}/capacity": {
            "put": {
                "tags": ["Admin"],
                "summary": "Override course capacity",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCapacityRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/courses/{code}/students/{id}": {
            "post": {
                "tags": ["Admin"],
                "summary": "Enroll a student bypassing every rule",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already enrolled (ALREADY_ENROLLED)", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/enrollments": {
            "get": {
                "tags": ["Admin"],
                "summary": "Seat usage per course",
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentReport"}}}
            }
        }
    },
    "definitions": {
        "EnrollRequest": {
            "type": "object",
            "required": ["course_id"],
            "properties": {"course_id": {"type": "string"}}
        },
        "CreateGradeRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "string"},
                "letter": {"type": "string", "enum": ["A", "B", "C", "D", "F", "P"]},
                "submit": {"type": "boolean"}
            }
        },
        "SetLetterRequest": {
            "type": "object",
            "required": ["letter"],
            "properties": {"letter": {"type": "string", "enum": ["A", "B", "C", "D", "F", "P"]}}
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["id", "name"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "completed_courses": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["code", "name", "schedule"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer", "minimum": 0},
                "schedule": {"type": "string"},
                "prerequisites": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CompletedCourseRequest": {
            "type": "object",
            "required": ["course_code"],
            "properties": {"course_code": {"type": "string"}}
        },
        "UpdateCapacityRequest": {
            "type": "object",
            "required": ["capacity"],
            "properties": {"capacity": {"type": "integer", "minimum": 0}}
        },
        "EnrollmentReport": {
            "type": "object",
            "properties": {
                "report": {"type": "string"},
                "generated_at": {"type": "string", "format": "date-time"},
                "data": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "course": {"type": "string"},
                            "name": {"type": "string"},
                            "enrolled": {"type": "integer"},
                            "capacity": {"type": "integer"}
                        }
                    }
                }
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
