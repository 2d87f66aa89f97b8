// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package api serves the read-mostly HTTP surface of the attack map.

Routes are registered on a chi router by Router.SetupChi:

	GET    /api/v1/health                 service health
	GET    /api/v1/attacks                paginated, filtered attack list
	GET    /api/v1/attacks/recent         attacks of the last N minutes
	DELETE /api/v1/attacks/cleanup        delete attacks older than N days
	GET    /api/v1/attacks/{id}           one attack
	DELETE /api/v1/attacks/{id}           delete one attack
	GET    /api/v1/stats/summary          aggregate statistics
	GET    /api/v1/stats/by-country       per-country counts
	GET    /api/v1/stats/by-port          per-port counts with risk level
	GET    /api/v1/geoip/cache            geolocation cache statistics
	DELETE /api/v1/geoip/cache            clear the cache (?expired=true for stale entries only)
	GET    /api/v1/listeners              honeypot listener states
	GET    /ws                            live attack feed
	GET    /metrics                       Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Store errors map
to HTTP status codes: database.ErrNotFound is 404, invalid query parameters
are 400 with code VALIDATION_ERROR, anything else is 500.

Middleware stack (outermost first): request id, real ip, access log,
panic recovery, CORS. The /api/v1 routes add rate limiting (go-chi/httprate),
security headers, Prometheus request metrics and gzip compression.
*/
package api
