package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gstbooks/internal/services"
)

type AdminHandler struct {
	resetService services.PasswordResetService
}

func NewAdminHandler(resetService services.PasswordResetService) *AdminHandler {
	return &AdminHandler{resetService: resetService}
}

// @Summary      Reset ticket status for an account
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  models.ResetStatusResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id}/reset-status [get]
func (h *AdminHandler) ResetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	status, err := h.resetService.ResetStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary      Revoke an outstanding reset ticket
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id}/revoke-reset [post]
func (h *AdminHandler) RevokeReset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	adminID, roleID := getAccountAndRole(c)
	if err := h.resetService.RevokeTicket(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	log.Printf("[admin][revoke-reset] accountID=%d revoked by adminID=%d role=%d", id, adminID, roleID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
