// Package contracts holds the interfaces pkg/app wires together.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts one portal area's routes on the application router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
