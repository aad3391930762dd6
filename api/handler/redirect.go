package handler

import "github.com/valyala/fasthttp"

// Redirect returns a handler that sends the caller to a fixed location.
// Used for the unauthenticated entry point of the gateway.
func Redirect(location string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Redirect(location, fasthttp.StatusFound)
	}
}
