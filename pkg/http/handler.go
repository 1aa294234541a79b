package http

import "github.com/labstack/echo/v4"

// Handler defines HTTP route registration interface.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

type handlerList []Handler

func (l handlerList) RegisterRoutes(e *echo.Echo) {
	for _, h := range l {
		h.RegisterRoutes(e)
	}
}

// Combine merges several handlers into one registration unit.
func Combine(handlers ...Handler) Handler {
	return handlerList(handlers)
}
