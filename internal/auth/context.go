package auth

import "github.com/gin-gonic/gin"

const (
	tenantKey = "tenant_id"
	actorKey  = "actor"

	TenantHeader = "X-Tenant-ID"
	ActorHeader  = "X-User-ID"
)

// Middleware lifts the tenant and actor identity off trusted headers into
// the request context. Authentication itself happens upstream; an empty
// tenant is rejected by the handlers.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader(TenantHeader); v != "" {
			c.Set(tenantKey, v)
		}
		if v := c.GetHeader(ActorHeader); v != "" {
			c.Set(actorKey, v)
		}
		c.Next()
	}
}

func GetTenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

func GetActor(c *gin.Context) string {
	return c.GetString(actorKey)
}
