package handlers

import (
	"PatientCare/middlewares"
	"PatientCare/models"
	"PatientCare/services"
	"PatientCare/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MappingHandler struct {
	service *services.MappingService
}

func NewMappingHandler(service *services.MappingService) *MappingHandler {
	return &MappingHandler{service: service}
}

// GetAllMappings lists every mapping, not only the caller's.
func (h *MappingHandler) GetAllMappings(c *gin.Context) {
	filter := models.MappingFilter{Status: models.MappingStatus(c.Query("status"))}
	if filter.Status != "" && !filter.Status.IsValid() {
		middlewares.RespondError(c, invalidChoice("status", string(filter.Status)))
		return
	}

	page := pageRequest(c)
	mappings, count, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, utils.NewPage(NewMappingResponses(mappings), count, page), http.StatusOK)
}

func (h *MappingHandler) CreateMapping(c *gin.Context) {
	var in services.MappingInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	mapping, err := h.service.Create(c.Request.Context(), accountID(c), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewMappingResponse(mapping), http.StatusCreated)
}

// GetPatientMappings lists the doctors assigned to one of the caller's patients.
func (h *MappingHandler) GetPatientMappings(c *gin.Context) {
	patientID, err := parseID(c, "patient_id", "patient")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	mappings, err := h.service.ListForPatient(c.Request.Context(), accountID(c), patientID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewMappingResponses(mappings), http.StatusOK)
}

func (h *MappingHandler) GetMappingByID(c *gin.Context) {
	id, err := parseID(c, "id", "mapping")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	mapping, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewMappingResponse(mapping), http.StatusOK)
}

func (h *MappingHandler) UpdateMapping(c *gin.Context) {
	id, err := parseID(c, "id", "mapping")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	ctx := c.Request.Context()
	stored, err := h.service.GetOwned(ctx, accountID(c), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	var in services.MappingInput
	if c.Request.Method == http.MethodPatch {
		in = services.MappingInputFrom(stored)
	}
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	mapping, err := h.service.Update(ctx, accountID(c), id, in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewMappingResponse(mapping), http.StatusOK)
}

func (h *MappingHandler) DeleteMapping(c *gin.Context) {
	id, err := parseID(c, "id", "mapping")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), accountID(c), id); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
