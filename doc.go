// Package session implements the client-side authentication and session
// lifecycle for the HirePath platform: persisted session state, a
// token-bearing HTTP client, optional two-factor login/signup, and
// role-based access gating across navigation.
//
// Lifecycle:
//   - Store holds the identity, bearer token, and initialization flag.
//     Token mutations are committed to the APIClient's default headers
//     synchronously, so no dependent request observes a stale credential.
//   - Controller orchestrates signup, login (with the second-factor round
//     trip), logout, profile refresh, and startup rehydration. It owns both
//     the session and affiliation stores and updates them as one logical
//     step, and it drives the explicit load/save persistence cycle against
//     a Storage (in-memory, or SQLite via Bun).
//
// Gating:
//   - Gate evaluates a Requirement on every protected navigation. It blocks
//     rendering until initialization resolves, redirects unauthenticated
//     users to the login path with the origin attached, and enforces
//     role and company-role allow-lists by exact membership.
//   - SelectLayout is presentation routing over the same data: it picks a
//     UI shell, it never grants access.
//
// Background reconciliation:
//   - StatusPoller watches for a pending company-join request being
//     approved. Its enablement is a pure function of current state,
//     re-derived on every tick, and a stale probe response is discarded by
//     re-checking the predicate before acting on it.
package session
