// Package service provides the client logic layer for a Kalambury player.
//
// The service package implements:
//   - Login and token handling
//   - Opening the chat and drawing channels with the stored token
//   - Routing inbound frames to the session controller
//   - Sending chat lines, clear requests and strokes
//   - Teardown and the redirect back to the login page
//
// Core Interfaces:
//
// GameClient is the main interface offering every player operation. Client
// implements it on top of a session.Session, a session.TokenStore and two
// websocket.Channel values. Navigator switches between the two pages,
// RouteLogin and RouteGame; RouteTracker records the current one.
//
// Architecture:
//
// The service layer sits between the front ends (terminal, viewer API, MCP)
// and the session controller. Front ends never touch channels directly;
// they call GameClient and render through session observers.
//
// Usage:
//
//	sess, _ := session.New(session.Options{})
//	tokens, _ := session.NewFileTokenStore(cfg.TokenFile)
//	client := service.NewClient(sess, service.Options{Config: cfg, Tokens: tokens})
//
//	if _, err := client.Login(ctx, "ala", "secret"); err != nil {
//		log.Fatal(err)
//	}
//	if err := client.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	<-client.Done()
//
// Teardown:
//
// When either channel closes or fails, both are closed, the token is
// removed and the client navigates to the login page. This happens once
// per connection pair no matter how many close events arrive. Stop closes
// the channels but keeps the token for the next Start.
package service
