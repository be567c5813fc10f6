// Package config provides connection configuration for the Kalambury client.
//
// The config package handles:
//   - Default backend coordinates (scheme, host, port, application name)
//   - Building the login, chat and drawing endpoint URLs
//   - Loading an optional JSON profile over the defaults
//   - Validation of the merged configuration
//
// URL Layout:
//
// Every endpoint is built as {scheme}://{host}:{port}/{app}/{path}:
//   - Login: http://localhost:8080/KalamburyPro/rest/login
//   - Chat:  ws://localhost:8080/KalamburyPro/chat
//   - Draw:  ws://localhost:8080/KalamburyPro/draw
//
// Profile Format:
//
// A profile is a JSON file with any subset of the Config fields. Missing
// fields keep their defaults:
//
//	{
//	  "host": "kalambury.example.com",
//	  "rest_scheme": "https",
//	  "ws_scheme": "wss",
//	  "port": 443
//	}
//
// Usage:
//
//	manager := config.NewManager("kalambury.json")
//
//	cfg, err := manager.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	loginURL := cfg.LoginURL()
//
// Validation:
//
// Configurations are validated with go-playground/validator struct tags for:
//   - Known schemes (http/https for REST, ws/wss for channels)
//   - Host names and port range
//   - Non-empty application name and endpoint paths
package config
