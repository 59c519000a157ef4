// Package http_reporter provides HTTP handlers for exposing the request
// counters: the text exposition format for scrapers and a JSON snapshot for
// humans poking at a running service.
//
// The package implements the standard http.Handler interface and can be
// mounted on any HTTP router or used with the standard library's http package.
package http_reporter
