package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxCartSessionKey = "cart_session" // string

	cartSessionCookie = "cart_session"
	cartSessionTTL    = 14 * 24 * time.Hour
)

// CartSession はカートのセッションIDをcookieで維持する。
// 無ければUUIDを発行してcookieに書き、あればそのまま使う。
// ログイン有無に関係なく同じcookieがカートの鍵になる。
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string

			cookie, err := c.Cookie(cartSessionCookie)
			if err == nil && cookie.Value != "" {
				if _, perr := uuid.Parse(cookie.Value); perr == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cartSessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cartSessionTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxCartSessionKey, sessionID)
			return next(c)
		}
	}
}
