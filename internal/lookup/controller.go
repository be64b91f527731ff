package lookup

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LookupController struct {
	LookupService *LookupService
}

func (ctrl *LookupController) GetProductionLines(c *gin.Context) {
	var processID uint
	if raw := c.Query("process_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid process_id"})
			return
		}
		processID = uint(parsed)
	}

	lines, err := ctrl.LookupService.GetProductionLines(c.Query("type"), processID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch production lines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lines})
}

func (ctrl *LookupController) GetProductionLine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	line, err := ctrl.LookupService.GetProductionLine(uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Production line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch production line"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (ctrl *LookupController) CreateProductionLine(c *gin.Context) {
	var line ProductionLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if line.Name == "" || line.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}
	if err := ctrl.LookupService.CreateProductionLine(&line); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create production line"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": line})
}

func (ctrl *LookupController) UpdateProductionLine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var input ProductionLine
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	line, err := ctrl.LookupService.UpdateProductionLine(uint(id), &input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Production line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update production line"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (ctrl *LookupController) DeleteProductionLine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.LookupService.DeleteProductionLine(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Production line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete production line"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Production line deleted"})
}

func (ctrl *LookupController) GetProcesses(c *gin.Context) {
	processes, err := ctrl.LookupService.GetProcesses(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch processes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": processes})
}

func (ctrl *LookupController) GetProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	process, err := ctrl.LookupService.GetProcess(uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch process"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": process})
}

func (ctrl *LookupController) CreateProcess(c *gin.Context) {
	var process Process
	if err := c.ShouldBindJSON(&process); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if process.Name == "" || process.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}
	if err := ctrl.LookupService.CreateProcess(&process); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create process"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": process})
}

func (ctrl *LookupController) UpdateProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var input Process
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	process, err := ctrl.LookupService.UpdateProcess(uint(id), &input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update process"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": process})
}

func (ctrl *LookupController) DeleteProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.LookupService.DeleteProcess(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete process"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Process deleted"})
}

func (ctrl *LookupController) GetVehicleModels(c *gin.Context) {
	models, err := ctrl.LookupService.GetVehicleModels(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle models"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models})
}

func (ctrl *LookupController) GetVehicleModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	model, err := ctrl.LookupService.GetVehicleModel(uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle model not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": model})
}

func (ctrl *LookupController) CreateVehicleModel(c *gin.Context) {
	var model VehicleModel
	if err := c.ShouldBindJSON(&model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if model.Name == "" || model.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}
	if err := ctrl.LookupService.CreateVehicleModel(&model); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle model"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": model})
}

func (ctrl *LookupController) UpdateVehicleModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var input VehicleModel
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	model, err := ctrl.LookupService.UpdateVehicleModel(uint(id), &input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle model not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": model})
}

func (ctrl *LookupController) DeleteVehicleModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.LookupService.DeleteVehicleModel(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle model not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle model deleted"})
}
