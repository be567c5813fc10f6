package api

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var loginPage []byte

//go:embed static/game.html
var gamePage []byte

func servePage(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
