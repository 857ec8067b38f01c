package middleware

import (
	"net/http"

	"bylines/internal/db"
	"bylines/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CheckUserKey is the context key holding the logged-in user, when any.
const CheckUserKey = "current_user"

// LoadUser resolves the session's user id to a user record and stores it
// in the request context. It never rejects: downstream guards decide.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("user_id").(int64)
		if !ok {
			c.Next()
			return
		}
		var user models.User
		if err := db.DB.First(&user, userID).Error; err == nil {
			c.Set(CheckUserKey, &user)
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// EditorRequired rejects requests that lack an editor-capable session.
func EditorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if !user.CanEdit() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "editor capability required"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects requests that lack an admin session.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin capability required"})
			return
		}
		c.Next()
	}
}
