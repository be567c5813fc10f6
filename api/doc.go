// Package api provides the loopback viewer API for a Kalambury player.
//
// The api package implements:
//   - The login and game pages served from embedded HTML
//   - JSON endpoints driving the player's game client
//   - A share QR code for the game page
//   - WebSocket upgrade handling for live viewers
//
// Endpoints:
//
// Pages:
//   - GET / and GET /index.html - Login page
//   - GET /app/html/game.html - Game page, redirects to the login page until a login succeeds
//
// Login:
//   - POST /api/login - Exchange credentials for a token and open both channels
//   - POST /api/logout - Close the channels and drop the token
//
// Game:
//   - GET /api/state - Word, drawing rights, messages, scoreboard and connection status
//   - GET /api/canvas - Canvas size and rendered segments
//   - POST /api/chat - Send a chat line or a guess
//   - POST /api/clear - Clear every canvas (drawer only)
//   - POST /api/pointer - Pointer event: down, move, up or leave
//   - POST /api/stroke - Draw a polyline (drawer only)
//   - POST /api/color - Set the stroke color, or pick it from hue and shade fractions;
//     an action of down, move or up drags over the shade block in block pixels
//   - POST /api/resize - Fit the canvas to a container width
//
// Sharing:
//   - GET /api/qr?size=N - PNG QR code of the game page
//   - GET /ws - Live render events
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status mapped from the client error:
//
//	{
//	  "error": "drawing rights required"
//	}
//
// Usage:
//
//	server := api.NewServer(client, hub)
//	http.ListenAndServe("localhost:8081", server)
package api
