package middleware

import (
	"net/http"
	"slices"
)

// Chain wraps h so that the first middleware listed runs first.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	middleware = slices.Clone(middleware)
	slices.Reverse(middleware)
	for _, m := range middleware {
		h = m(h)
	}
	return h
}
