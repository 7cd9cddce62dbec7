// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as the demonstration auth checks, request logging, CORS,
// rate limiting, tracing and the single error funnel.
package middleware
