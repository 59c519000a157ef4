// Package http_middleware provides the HTTP middleware that counts every
// inbound request by method and path before it reaches routing.
//
// The middleware is designed to be used with the standard library's
// net/http package and with routers such as chi that accept
// func(http.Handler) http.Handler.
package http_middleware
