// Package ops exposes the bridge's operational API: health, per-realm
// stats, and the bulk pre-removal cleanup triggers. It deliberately does not
// expose user data; the consumer runtime owns those surfaces.
package ops

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/provider"
)

// Handler handles ops API requests.
type Handler struct {
	users  *provider.UserProvider
	groups *provider.GroupProvider
	roles  *provider.RoleProvider
}

// NewHandler creates a new ops handler over the three storage providers.
func NewHandler(users *provider.UserProvider, groups *provider.GroupProvider, roles *provider.RoleProvider) *Handler {
	return &Handler{users: users, groups: groups, roles: roles}
}

// RealmStats returns entity counts for one realm (GET /api/realms/:realm/stats)
func (h *Handler) RealmStats(c *gin.Context) {
	realmID := c.Param("realm")

	userCount, err := h.users.UsersCount(realmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"realm": realmID,
		"users": userCount,
	})
}

// RemoveRealm purges all of a realm's users, groups, and roles
// (DELETE /api/realms/:realm). Idempotent.
func (h *Handler) RemoveRealm(c *gin.Context) {
	realmID := c.Param("realm")

	if err := h.users.RemoveRealm(realmID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove realm users"})
		return
	}
	if err := h.groups.RemoveRealm(realmID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove realm groups"})
		return
	}
	if err := h.roles.DeleteAllRealmRoles(realmID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove realm roles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Realm purged", "realm": realmID})
}

// RemoveClient purges all roles of one client within a realm
// (DELETE /api/realms/:realm/clients/:client). Idempotent.
func (h *Handler) RemoveClient(c *gin.Context) {
	realmID := c.Param("realm")
	clientID := c.Param("client")

	if err := h.roles.DeleteAllClientRoles(realmID, clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove client roles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client roles purged", "realm": realmID, "client": clientID})
}

// RegisterRoutes registers ops API routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/realms/:realm/stats", h.RealmStats)
	rg.DELETE("/realms/:realm", h.RemoveRealm)
	rg.DELETE("/realms/:realm/clients/:client", h.RemoveClient)
}
