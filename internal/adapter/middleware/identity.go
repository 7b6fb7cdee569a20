package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

const (
	HeaderUserID    = "Ax-User-Id"
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	ctxUserID  = "user_id"
	ctxManager = "manager"
)

// Identity requires the caller's user id header and stores it on the context.
// Authentication happens upstream; this service only scopes data by it.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if id == "" {
				return errJSON(c, http.StatusUnauthorized, "missing "+HeaderUserID)
			}
			if !reUserID.MatchString(id) {
				return errJSON(c, http.StatusBadRequest, "invalid "+HeaderUserID)
			}
			c.Set(ctxUserID, id)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

func Manager(c echo.Context) string {
	s, _ := c.Get(ctxManager).(string)
	return s
}

// dummyHash keeps unknown usernames on the same bcrypt cost as known ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("loanflow-dummy"), bcrypt.DefaultCost)

// ManagerAuth checks HTTP basic credentials against username -> bcrypt hash.
func ManagerAuth(creds map[string]string) echo.MiddlewareFunc {
	return echomw.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		hash, ok := creds[username]
		if !ok {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return false, nil
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			return false, nil
		}
		c.Set(ctxManager, username)
		return true, nil
	})
}
