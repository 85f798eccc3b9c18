// Package openapi derives urlform schemas from OpenAPI 3 documents. The
// query parameters of one operation become the form fields and the first
// server URL plus the operation path becomes the default base URL. The
// kin-openapi parser lives under internal/openapi.
package openapi
