// Package http provides HTTP handlers and middleware for the planner API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"name","password","force"}.
//     A live session for the same user yields 409 with the minutes remaining
//     until it expires; retrying with "force":true takes the slot over. The
//     token is returned in the body, the `X-Session-Token` header, and the
//     `session_token`/`session_user` cookie pair.
//   - POST /register: public account creation. POST /logout drops the
//     caller's session and clears the cookies.
//   - GET/POST /events, GET/PUT/DELETE /events/{id}, PUT /events/{id}/move:
//     event management exchanging the `eventRequest` payload defined in
//     event_handler.go. Moves relax the not-in-the-past rule.
//   - GET/POST /tasks, GET/PUT/DELETE /tasks/{id}, PUT /tasks/{id}/state:
//     task management; the state endpoint backs the dashboard checkbox.
//   - GET /dashboard: today's agenda and week counters. GET /calendar/feed:
//     calendar widget projections. POST /admin/purge: administrator cleanup
//     of stale records.
//   - GET/POST /users, PUT/DELETE /users/{id}, DELETE /users/{id}/session:
//     account administration; session termination requires admin rights.
//   - GET /metrics: Prometheus scrape endpoint. GET /healthz: liveness.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
