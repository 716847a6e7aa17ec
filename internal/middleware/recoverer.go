// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tomtom215/mediarelay/internal/logging"
)

// Recoverer turns a panic into a logged error and a plain-text 500 "Error"
// response, the answer webhook senders get for any unexpected failure.
func Recoverer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic in HTTP handler")
			WriteText(w, http.StatusInternalServerError, "Error")
		}()
		next(w, r)
	}
}

// WriteText writes a plain-text response.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
