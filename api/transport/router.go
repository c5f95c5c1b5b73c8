package transport

import (
	"net/http"
	"os"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const principalKey = "votely.principal"

func NewRouter(ginMode string) *gin.Engine {
	gin.SetMode(ginMode)
	engine := gin.New()
	engine.Use(CORSMiddleware())
	engine.Use(PrincipalMiddleware())

	//Bypass swagger for non-local
	if os.Getenv("APP_ENV") == "local" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.NoRoute(NoRouteHandler())

	return engine
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-user-id, x-user-role")

		if c.Request.Method == "OPTIONS" {
			logging.Log.Infof("OPTIONS request received:%s", c.Request.URL.Path)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logging.Log.Infof("No routed request received for:%s", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
	}
}

// PrincipalMiddleware picks up the identity the gateway authorizer forwards
// after validating the caller's token. Token validation itself never happens
// here; requests without identity headers simply stay anonymous.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("x-user-id")
		role := voting.Role(c.GetHeader("x-user-role"))

		if id != "" && (role == voting.RoleVoter || role == voting.RoleCandidate || role == voting.RoleAdmin) {
			c.Set(principalKey, voting.Principal{ID: id, Role: role})
		}
		c.Next()
	}
}

// RequireAuth aborts requests that reach an authenticated route anonymously.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(principalKey); !ok {
			logging.Log.Warnf("AUTH: unauthenticated access attempt to %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal of the request, if any.
func PrincipalFrom(c *gin.Context) (voting.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return voting.Principal{}, false
	}
	p, ok := v.(voting.Principal)
	return p, ok
}
