// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package api serves the public gallery, the admin dashboard and the
infrastructure endpoints over a chi router.

# Routes

Public, under /api/v1:

	GET  /content/featured?filter=all|trending|recent|popular
	GET  /content/search?q=&category=
	GET  /categories
	GET  /categories/search
	GET  /categories/{id}/content?subcategory=
	POST /content/{id}/engagement        {"action": "view|like|share"}
	POST /messages                       contact form
	GET  /design
	GET  /route?fragment=
	POST /auth/login, POST /auth/logout, GET /auth/me
	GET  /ws                             live updates

Admin, under /api/v1/admin (session token plus casbin policy):

	GET  /content?q=&category=&page=
	POST /content, PUT /content/{id}, DELETE /content/{id}
	POST /content/bulk-delete, POST /content/bulk-feature
	POST /categories, PUT /categories/{id}, DELETE /categories/{id}
	POST /categories/{id}/subcategories
	DELETE /categories/{id}/subcategories/{subID}
	GET  /messages, PUT /messages/{id}/read, DELETE /messages/{id}
	PUT  /design, POST /design/assets/{logo|favicon}
	GET  /stats, GET /stats/chart, GET /stats/chart.svg
	GET  /sitemap

Infrastructure: /health, /health/live, /health/ready, /metrics,
/sitemap.xml and the uploaded media prefix.

# Responses

JSON endpoints answer with models.APIResponse:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "error": {"code": "VALIDATION_ERROR", "message": "Text and main category are required."}}

Domain errors are mapped in respondDomainError: validation failures are 400
with the message shown to the admin, missing documents 404, and failed
store writes 500 with the action's failure message ("Failed to save content.").

# Statistics

GET /admin/stats is served from a cache.Cache holding one analytics.Snapshot.
InvalidateStats is registered on the event bus so content and category
changes clear it; engagement does not publish events and shows up once the
entry expires.
*/
package api
