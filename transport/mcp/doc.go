// Package mcp provides a Model Context Protocol server for Kalambury players.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for player operations
//   - A thin proxy to a running player's viewer API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - login: Log in and join the game
//   - game_state: Word, drawing rights, canvas and connection status
//   - send_chat: Send a chat line or a guess
//   - clear_canvas: Clear every canvas (drawer only)
//   - draw_stroke: Draw a polyline (drawer only)
//   - set_color: Choose the stroke color
//   - scoreboard: Latest scoreboard
//   - message_log: Recent chat lines
//
// Architecture:
//
// The server holds no game state. Every tool calls the viewer API of a
// "kalambury play" process, so an agent, a browser viewer and the terminal
// all act on the same session.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8081")
//	server.ServeStdio(client.GetMCPServer())
package mcp
