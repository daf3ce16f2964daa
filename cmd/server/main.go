package main

// @title           Cashbook API
// @version         1.0
// @description     Personal income and expense tracker
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}
