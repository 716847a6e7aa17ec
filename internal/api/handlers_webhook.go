// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/middleware"
	"github.com/tomtom215/mediarelay/internal/models"
)

// WebhookSecretHeader carries the optional shared secret.
const WebhookSecretHeader = "X-Webhook-Secret"

// Webhook returns the handler for POST /{source}_webhook.
//
// Every handled payload answers 200 "OK", including payloads that were
// malformed, held for correlation or suppressed as duplicates. Only a failure
// to hand the rendered message to the bus answers 500 "Error".
func (h *Handler) Webhook(source models.Source) http.HandlerFunc {
	name := source.String()
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.Ctx(r.Context())

		if !h.config.WebhookEnabled(name) {
			middleware.WriteText(w, http.StatusNotFound, "Not Found")
			return
		}

		if secret := h.config.Webhooks.Secret; secret != "" {
			got := r.Header.Get(WebhookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.Warn().
					Str("source", name).
					Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
					Msg("Webhook rejected: secret mismatch")
				middleware.WriteText(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.Webhooks.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.Warn().Str("source", name).Int64("limit", tooLarge.Limit).Msg("Webhook body too large")
				middleware.WriteText(w, http.StatusRequestEntityTooLarge, "Payload Too Large")
				return
			}
			log.Warn().Err(err).Str("source", name).Msg("Failed to read webhook body")
			middleware.WriteText(w, http.StatusBadRequest, "Bad Request")
			return
		}

		outcome, err := h.relay.Handle(r.Context(), source, body)
		if err != nil {
			log.Error().Err(err).Str("source", name).Str("outcome", string(outcome)).Msg("Webhook handling failed")
			middleware.WriteText(w, http.StatusInternalServerError, "Error")
			return
		}

		log.Debug().Str("source", name).Str("outcome", string(outcome)).Msg("Webhook handled")
		middleware.WriteText(w, http.StatusOK, "OK")
	}
}
