// cmd/main.go
package main

import (
	"fanpocket-api/app"
)

// @title           Fanpocket Auth API
// @version         1.0
// @description     Session authentication service for the Fanpocket site.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
