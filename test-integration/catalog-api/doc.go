// Package integration provides black-box tests for the catalog API server.
// They start the complete application against file and REST API sources and
// exercise the catalog and browsing session endpoints over HTTP.
package integration
