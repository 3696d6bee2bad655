package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AASTU Registration API",
        "description": "Course registration approval pipeline for the Office of the Registrar",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Registrations", "description": "Registration slip workflow"},
        {"name": "CostSharing", "description": "Cost sharing beneficiaries forms"},
        {"name": "GradeReports", "description": "Semester grade reports"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Audit", "description": "Audit trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account info",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Open a registration slip",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlipRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/pending": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List slips awaiting the caller's role",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Fetch one registration slip",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/registrations/{id}/pdf": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Download a registration slip as PDF",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/registrations/{id}/approve": {
            "put": {
                "tags": ["Registrations"],
                "summary": "Approve a slip as advisor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slip is not awaiting advisor approval"}
                }
            }
        },
        "/registrations/{id}/reject": {
            "put": {
                "tags": ["Registrations"],
                "summary": "Reject a slip as advisor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slip is not awaiting advisor approval"}
                }
            }
        },
        "/registrations/{id}/verify": {
            "put": {
                "tags": ["Registrations"],
                "summary": "Verify cost sharing for a slip",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slip or form is in the wrong state"}
                }
            }
        },
        "/registrations/{id}/finalize": {
            "put": {
                "tags": ["Registrations"],
                "summary": "Finalize a slip as registrar",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slip is not cost-sharing verified"}
                }
            }
        },
        "/registrations/{id}/cost-sharing": {
            "get": {
                "tags": ["CostSharing"],
                "summary": "Fetch the cost-sharing form attached to a slip",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/{studentId}/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List a student's registration slips",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cost-sharing": {
            "post": {
                "tags": ["CostSharing"],
                "summary": "Submit a completed cost-sharing form",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitCostSharingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slip must be approved by advisor first"}
                }
            }
        },
        "/cost-sharing/{id}/verify": {
            "put": {
                "tags": ["CostSharing"],
                "summary": "Verify a cost-sharing form",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Form or slip is in the wrong state"}
                }
            }
        },
        "/grade-reports": {
            "post": {
                "tags": ["GradeReports"],
                "summary": "Create a grade report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGradeReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-reports/pending": {
            "get": {
                "tags": ["GradeReports"],
                "summary": "List grade reports awaiting department head review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-reports/{id}": {
            "get": {
                "tags": ["GradeReports"],
                "summary": "Fetch one grade report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/grade-reports/{id}/pdf": {
            "get": {
                "tags": ["GradeReports"],
                "summary": "Download a grade report as PDF",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/grade-reports/{id}/approve": {
            "put": {
                "tags": ["GradeReports"],
                "summary": "Approve or reject a grade report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveGradeReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Report already resolved"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List catalog courses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "department", "in": "query", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/mine": {
            "get": {
                "tags": ["Courses"],
                "summary": "List catalog courses for the signed-in student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List recent audit entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
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
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateSlipRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "semester": {"type": "string"},
                "courses": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CourseInput"}
                }
            },
            "required": ["studentId", "semester", "courses"]
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "courseName": {"type": "string"},
                "creditHours": {"type": "integer"}
            },
            "required": ["courseCode", "courseName", "creditHours"]
        },
        "ApproveRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string"}
            }
        },
        "RejectRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string"}
            },
            "required": ["comment"]
        },
        "SubmitCostSharingRequest": {
            "type": "object",
            "properties": {
                "slipId": {"type": "integer"},
                "fullName": {"type": "string"},
                "identityNo": {"type": "string"},
                "sex": {"type": "string"},
                "nationality": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "placeOfBirth": {"type": "string"},
                "mothersFullName": {"type": "string"},
                "mothersAddress": {"type": "string"},
                "schoolName": {"type": "string"},
                "dateCompleted": {"type": "string"},
                "facultyOrCollege": {"type": "string"},
                "department": {"type": "string"},
                "entranceYearEC": {"type": "string"},
                "serviceSelection": {"type": "string"},
                "beneficiarySignatureName": {"type": "string"}
            },
            "required": ["slipId"]
        },
        "CreateGradeReportRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "integer"},
                "program": {"type": "string"},
                "remark": {"type": "string"},
                "previousCredit": {"type": "number"},
                "previousGP": {"type": "number"},
                "previousGPA": {"type": "number"},
                "courses": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CourseGradeInput"}
                }
            },
            "required": ["studentId", "semester", "year", "courses"]
        },
        "CourseGradeInput": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "courseTitle": {"type": "string"},
                "creditHours": {"type": "number"},
                "numberGrade": {"type": "number"}
            },
            "required": ["courseCode", "courseTitle", "creditHours"]
        },
        "ApproveGradeReportRequest": {
            "type": "object",
            "properties": {
                "approve": {"type": "boolean"},
                "comment": {"type": "string"}
            },
            "required": ["approve"]
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
