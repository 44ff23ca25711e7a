package main

import "gstbooks/internal/app"

// @title           GSTBooks Account Security API
// @version         1.0
// @description     Password reset and back-office ticket management for GSTBooks accounts.
// @BasePath        /
func main() {
	app.Run()
}
