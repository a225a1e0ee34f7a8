package views

import "strings"

type Route string

const (
	RouteAuth Route = "/auth"
	RouteHome Route = "/homepage"

	chatRoutePrefix = "/chat/"
)

func ChatRoute(id string) Route {
	return Route(chatRoutePrefix + id)
}

// ChatID returns the chat id of a /chat/<id> route.
func (r Route) ChatID() (string, bool) {
	id, ok := strings.CutPrefix(string(r), chatRoutePrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Navigator switches the console between screens.
type Navigator interface {
	Navigate(to Route)
	Current() Route
}
