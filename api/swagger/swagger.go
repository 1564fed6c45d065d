package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Blood Bank Registry API",
        "description": "Donors, blood inventory, and blood requests with role-based access",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "tags": [
        {"name": "Authentication", "description": "Login and principal info"},
        {"name": "Donors", "description": "Donor directory"},
        {"name": "Inventory", "description": "Blood stock ledger"},
        {"name": "Requests", "description": "Blood request workflow"},
        {"name": "Reports", "description": "Admin roster downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a principal",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"},
                    "429": {"description": "Too many attempts"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current principal",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/donors": {
            "get": {
                "tags": ["Donors"],
                "summary": "List donors (admin)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Donors"],
                "summary": "Register a donor",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already in use"}
                }
            }
        },
        "/donors/group/{group}": {
            "get": {
                "tags": ["Donors"],
                "summary": "List donors by blood group (admin)",
                "parameters": [{"name": "group", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/donors/{id}/availability": {
            "patch": {
                "tags": ["Donors"],
                "summary": "Update donor availability (admin or self)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Donation cooldown not elapsed"}
                }
            }
        },
        "/inventory": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List stock per blood group",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/restock": {
            "post": {
                "tags": ["Inventory"],
                "summary": "Add units (admin)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/deduct": {
            "post": {
                "tags": ["Inventory"],
                "summary": "Remove units (admin)",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No inventory for group"},
                    "409": {"description": "Insufficient stock"}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List requests (admin)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a request",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/requests/{id}/approve": {
            "post": {
                "tags": ["Requests"],
                "summary": "Approve a pending request (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Approved"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Not pending or insufficient stock"}
                }
            }
        },
        "/requests/{id}/reject": {
            "post": {
                "tags": ["Requests"],
                "summary": "Reject a pending request (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Rejected"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Not pending"}
                }
            }
        },
        "/reports/donors": {
            "get": {
                "tags": ["Reports"],
                "summary": "Donor roster as PDF or CSV (admin)",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/reports/inventory": {
            "get": {
                "tags": ["Reports"],
                "summary": "Inventory report as PDF or CSV (admin)",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
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
                "timestamp": {"type": "string"}
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
