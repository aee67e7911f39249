// Package auth provides authentication and authorization for the application.
//
// It covers four concerns:
//
//   - The user store: registration with Argon2id password hashing, lookup by
//     login identifier, approval, permission assignment, soft-delete and the
//     idempotent master-admin bootstrap.
//   - Session tokens: stateless HS256 JWTs issued on login and validated on
//     every request (TokenIssuer).
//   - The permission catalog: the seeded set of resource:action permission
//     names, grouped by module.
//   - Request-time enforcement: Fiber middleware resolving bearer tokens to
//     users (Authenticate) and gating handlers on a named permission
//     (RequirePermission) or on master-admin status (RequireMasterAdmin).
//
// # Authorization model
//
// A user's effective permissions are exactly the permission names stored on
// the user record, except for master admins, whose IsMasterAdmin flag grants
// every permission unconditionally. The check itself is the pure
// User.HasPermission method; nothing in the gate depends on request state
// beyond the resolved user.
//
// A small set of administrative operations (listing users, approving them,
// editing permission sets) requires IsMasterAdmin exactly. Holding named
// permissions does not open that gate, and a master admin's own permission
// set can never be edited.
//
// Example usage:
//
//	authService := auth.NewService(db, auth.NewTokenIssuer(key, ttl), mailer, url)
//
//	app.Get("/api/products",
//	    auth.Authenticate(authService),
//	    auth.RequirePermission(auth.PermProductRead),
//	    handler,
//	)
package auth
