package program

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crane-program-api/internal/logs"

	"github.com/gin-gonic/gin"
)

type LogServicePort interface {
	Log(entry logs.SystemLog, payload interface{}) error
}

type ProgramController struct {
	ProgramService *ProgramService
	LS             LogServicePort
}

func (ctrl *ProgramController) GetPrograms(c *gin.Context) {
	lineID, ok := queryID(c, "production_line_id")
	if !ok {
		return
	}
	vehicleID, ok := queryID(c, "vehicle_model_id")
	if !ok {
		return
	}

	programs, err := ctrl.ProgramService.GetPrograms(lineID, vehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": programs})
}

func (ctrl *ProgramController) GetProgram(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	program, err := ctrl.ProgramService.GetProgram(uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch program"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": program})
}

func (ctrl *ProgramController) CreateProgram(c *gin.Context) {
	var input Program
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Name == "" || input.Code == "" || input.ProductionLineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, code and production_line_id are required"})
		return
	}

	if err := ctrl.ProgramService.CreateProgram(&input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	ctrl.audit(c, "CREATE_PROGRAM", fmt.Sprintf("Created program %s (%s)", input.Name, input.Code), input)
	c.JSON(http.StatusCreated, gin.H{"data": input})
}

func (ctrl *ProgramController) UpdateProgram(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var input Program
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	program, err := ctrl.ProgramService.UpdateProgram(uint(id), &input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": program})
}

func (ctrl *ProgramController) DeleteProgram(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.ProgramService.DeleteProgram(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	ctrl.audit(c, "DELETE_PROGRAM", fmt.Sprintf("Deleted program %d", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}

func (ctrl *ProgramController) GetProgramsByVehicle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("vehicle_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle_id"})
		return
	}
	programs, err := ctrl.ProgramService.GetProgramsByVehicle(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": programs})
}

func (ctrl *ProgramController) GetRelations(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("program_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program_id"})
		return
	}
	relations, err := ctrl.ProgramService.GetRelations(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch relations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": relations})
}

func (ctrl *ProgramController) CreateRelation(c *gin.Context) {
	var relation ProgramRelation
	if err := c.ShouldBindJSON(&relation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if relation.SourceProgramID == 0 || relation.RelatedProgramID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_program_id and related_program_id are required"})
		return
	}
	if relation.SourceProgramID == relation.RelatedProgramID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A program cannot relate to itself"})
		return
	}

	if err := ctrl.ProgramService.CreateRelation(&relation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create relation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": relation})
}

func (ctrl *ProgramController) DeleteRelation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.ProgramService.DeleteRelation(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Relation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete relation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relation deleted"})
}

func (ctrl *ProgramController) audit(c *gin.Context, action, message string, payload interface{}) {
	if ctrl.LS == nil {
		return
	}
	var actor *uint
	if raw, ok := c.Get("userID"); ok {
		if f, ok := raw.(float64); ok {
			id := uint(f)
			actor = &id
		}
	}
	if err := ctrl.LS.Log(logs.SystemLog{
		Level:   "info",
		Service: "program",
		UserID:  actor,
		Action:  action,
		Message: message,
	}, payload); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}

func queryID(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return 0, false
	}
	return uint(parsed), true
}
