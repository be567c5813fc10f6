// Package rest provides the REST login exchange with the Kalambury backend.
//
// Login posts the player's credentials as JSON and receives the session
// token as a bare text body. The backend creates an account on first login,
// so a failed login only ever means a wrong password or a server fault:
//   - HTTP status >= 400: ErrLoginFailed
//   - Empty or "null" body: ErrNullToken
//
// The token is a signed JWT. The client never verifies it; it only reads
// the username claim for display and forwards the token verbatim as the
// first frame on each game channel.
//
// Usage:
//
//	client := rest.NewLoginClient(cfg.LoginURL(), nil)
//	token, err := client.Login(ctx, protocol.Credentials{Username: "ala", Password: "secret"})
package rest
