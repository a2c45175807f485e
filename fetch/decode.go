package fetch

import (
	"github.com/tidwall/gjson"

	"github.com/krisalay/navcache/types"
)

/*
Decode turns a response body into a Payload.

Accepted success shapes:

	{"success": true, "content": "<div>…</div>", "title": "Brands"}
	{"success": true, "data": {"content": "<div>…</div>", "title": "Brands"}}

Failure shapes:

	{"success": false, "error": "…"}
	{"success": false, "data": {"message": "…"}}
	{"success": false, "data": "…"}
*/
func Decode(route types.Route, body []byte) (types.Payload, error) {
	if !gjson.ValidBytes(body) {
		return types.Payload{}, malformed(route, "response is not valid JSON")
	}
	res := gjson.ParseBytes(body)

	success := res.Get("success")
	if success.Type != gjson.True && success.Type != gjson.False {
		return types.Payload{}, malformed(route, "response has no success flag")
	}

	if !success.Bool() {
		msg := errorMessage(body)
		if msg == "" {
			msg = "the server could not load this page"
		}
		return types.Payload{}, &types.FetchError{Route: route, Kind: types.FetchServer, Message: msg}
	}

	content := first(res, "content", "data.content")
	if content.Type != gjson.String {
		return types.Payload{}, malformed(route, "response has no content")
	}

	return types.Payload{
		Content: content.Str,
		Title:   firstString(res, "title", "data.title"),
	}, nil
}

// errorMessage extracts a server-provided failure message, if any.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return firstString(gjson.ParseBytes(body), "error", "message", "data.message", "data.error", "data")
}

func first(res gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := res.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if r := res.Get(p); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

func malformed(route types.Route, msg string) *types.FetchError {
	return &types.FetchError{Route: route, Kind: types.FetchMalformed, Message: msg}
}
