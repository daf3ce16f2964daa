package auth

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName = "cashbook_session"

	sessionUserID   = "user_id"
	sessionUsername = "username"
)

func init() {
	// flashes are stored as []interface{}
	gob.Register([]interface{}{})
}

func NewCookieStore(secret string, secure bool) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// StartSession binds p to the browser session.
func StartSession(c *gin.Context, p Principal) error {
	session := sessions.Default(c)
	session.Set(sessionUserID, p.UserID)
	session.Set(sessionUsername, p.Username)
	return session.Save()
}

func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func SessionPrincipal(c *gin.Context) (Principal, bool) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserID).(uint)
	if !ok || userID == 0 {
		return Principal{}, false
	}
	username, _ := session.Get(sessionUsername).(string)
	return Principal{UserID: userID, Username: username}, true
}

// Flash queues a one-shot message for the next rendered page.
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

// TakeFlashes returns and clears the queued messages.
func TakeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save()

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
