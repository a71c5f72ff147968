// Package endpoint provides the health and build-info handlers mounted next to the API.
package endpoint
