package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *AdminService
}

func (ctrl *AdminController) GetStats(c *gin.Context) {
	stats, err := ctrl.AdminService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (ctrl *AdminController) ExportPrograms(c *gin.Context) {
	contentType, filename, data, err := ctrl.AdminService.ExportPrograms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export programs"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func (ctrl *AdminController) ExportPermissions(c *gin.Context) {
	contentType, filename, data, err := ctrl.AdminService.ExportPermissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export permissions"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
