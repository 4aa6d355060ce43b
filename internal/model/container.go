package model

import "strings"

// Container edustaa käynnissä olevaa Docker containeria
type Container struct {
	ID   string
	Name string
}

// DisplayName strips a single leading "/" that the Docker API puts in
// front of container names.
func DisplayName(raw string) string {
	return strings.TrimPrefix(raw, "/")
}
