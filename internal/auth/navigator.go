package auth

// LoginRoute is where an expired or logged out session is sent
const LoginRoute = "/login"

// Navigator performs a hard navigation to a console route
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}
