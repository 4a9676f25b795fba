package session

import (
	"github.com/labstack/echo/v4"
)

// Header carries the session identifier between the browser and the API.
const Header = "X-Session-ID"

const contextKey = "session_state"

// Middleware resolves the caller's session from the X-Session-ID header,
// creating one when absent or unknown, and echoes the id back so the client
// can stick to it.
func Middleware(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := m.GetOrCreate(c.Request().Header.Get(Header))
			c.Set(contextKey, st)
			c.Response().Header().Set(Header, st.ID)
			return next(c)
		}
	}
}

// FromContext returns the session state attached by Middleware, or nil.
func FromContext(c echo.Context) *State {
	st, _ := c.Get(contextKey).(*State)
	return st
}
