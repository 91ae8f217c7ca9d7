// Package docs registra el documento OpenAPI servido en /swagger.
// Se regenera con `swag init -g cmd/api/main.go -o internal/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/companies/profile": {
            "get": {"tags": ["companies"], "summary": "Perfil de la empresa (se crea en el primer acceso)", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}},
            "put": {"tags": ["companies"], "summary": "Actualizar perfil; recalcula verified", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/companies": {
            "get": {"tags": ["companies"], "summary": "Listar empresas verificadas", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}}
        },
        "/companies/{companyID}/public": {
            "get": {"tags": ["companies"], "summary": "Perfil público", "parameters": [{"type": "string", "name": "companyID", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/companies/analytics/overview": {
            "get": {"tags": ["analytics"], "summary": "Resumen de la ventana", "parameters": [{"type": "integer", "name": "days", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}}
        },
        "/companies/analytics/stats": {
            "get": {"tags": ["analytics"], "summary": "Series y distribuciones", "parameters": [{"type": "integer", "name": "days", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}}
        },
        "/services": {
            "get": {"tags": ["services"], "summary": "Listar servicios de la empresa", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}},
            "post": {"tags": ["services"], "summary": "Crear servicio", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/employees": {
            "get": {"tags": ["employees"], "summary": "Listar empleados", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}},
            "post": {"tags": ["employees"], "summary": "Crear empleado", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/employees/available": {
            "get": {"tags": ["employees"], "summary": "Empleados disponibles", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}}
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "Reservas de la empresa", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}},
            "post": {"tags": ["bookings"], "summary": "Crear reserva", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/reviews": {
            "post": {"tags": ["reviews"], "summary": "Reseñar una reserva completada", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/waitlist": {
            "post": {"tags": ["waitlist"], "summary": "Sumarse a la lista de espera", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpjson.ErrorBody"}}}}
        },
        "/currency/convert": {
            "get": {"tags": ["currency"], "summary": "Convertir un monto", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/httpjson.Envelope"}}}}
        }
    },
    "definitions": {
        "httpjson.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "pagination": {"type": "object"}
            }
        },
        "httpjson.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Pet Care Marketplace API",
	Description:      "Backend multi-tenant de empresas de cuidado de mascotas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
