package transport

import "github.com/valyala/fasthttp"

// Param returns a request parameter, preferring POST body values over
// the query string, mirroring how clients sign requests.
func Param(ctx *fasthttp.RequestCtx, name string) string {
	if v := ctx.PostArgs().Peek(name); len(v) > 0 {
		return string(v)
	}
	return string(ctx.QueryArgs().Peek(name))
}

// Params collects every request parameter (query string and POST body)
// into the map shape the signature engine consumes. Body values win on
// duplicate names, matching Param.
func Params(ctx *fasthttp.RequestCtx) map[string]string {
	params := make(map[string]string)
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})
	ctx.PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})
	return params
}
