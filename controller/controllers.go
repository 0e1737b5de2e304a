// controller/controllers.go
package controller

// Controllers bundles every HTTP controller for route registration.
type Controllers struct {
	Auth  *AuthController
	Todo  *TodoController
	Admin *AdminController
}
