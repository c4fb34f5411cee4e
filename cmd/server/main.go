package main

import (
	"eventsapp/cmd/server/cmd"
	_ "eventsapp/docs"
)

// @title Events API
// @version 1.0
// @description JSON API for managing the conferences, seminars, congresses and courses owned by the logged-in user.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cmd.Execute()
}
