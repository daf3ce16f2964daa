package auth

import "github.com/gin-gonic/gin"

// Principal identifies the authenticated user of a request. Handlers scope
// every store call by UserID and never look the user up themselves.
type Principal struct {
	UserID   uint
	Username string
}

const principalKey = "principal"

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := value.(Principal)
	return p, ok
}
