// Package auth provides credentials, access tokens and account management for tasktrack.
//
// It covers:
//   - Argon2id password digests with fixed cost parameters and fail-closed verification
//   - HS256 access tokens carrying {sub, username}, valid for a fixed 24 hours
//   - Registration, sign-in and bearer resolution (Service)
//   - Admin provisioning: list accounts, grant or revoke admin, delete accounts
//
// There are two tiers: regular users and admins. Self-registration never
// grants admin; only an existing admin or the first-boot seed does.
// Password digests never leave the package in serialised form.
package auth
