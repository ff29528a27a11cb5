// Package openapi loads OpenAPI 3 documents and indexes their operations.
//
// Documents come from http(s) URLs or local paths and are parsed with
// kin-openapi. Index walks operations in a stable order; Extract turns one
// entry into the plain values page generation works on.
package openapi
