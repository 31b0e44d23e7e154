package handlers

import (
	"PatientCare/middlewares"
	"PatientCare/models"
	"PatientCare/services"
	"PatientCare/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func patientFilter(c *gin.Context) (models.PatientFilter, error) {
	filter := models.PatientFilter{
		Gender:     models.Gender(c.Query("gender")),
		BloodGroup: models.BloodGroup(c.Query("blood_group")),
		City:       c.Query("city"),
	}
	if filter.Gender != "" && !filter.Gender.IsValid() {
		return filter, invalidChoice("gender", string(filter.Gender))
	}
	if filter.BloodGroup != "" && !filter.BloodGroup.IsValid() {
		return filter, invalidChoice("blood_group", string(filter.BloodGroup))
	}
	return filter, nil
}

// GetAllPatients lists the caller's active patients
func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	filter, err := patientFilter(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	page := pageRequest(c)
	patients, count, err := h.service.List(c.Request.Context(), accountID(c), filter, page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, utils.NewPage(NewPatientResponses(patients), count, page), http.StatusOK)
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var in services.PatientInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	patient, err := h.service.Create(c.Request.Context(), accountID(c), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewPatientResponse(patient), http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, err := parseID(c, "id", "patient")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	patient, err := h.service.Get(c.Request.Context(), accountID(c), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewPatientDetailResponse(patient), http.StatusOK)
}

// UpdatePatient replaces the patient (PUT) or applies the supplied fields
// over the stored ones (PATCH).
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, err := parseID(c, "id", "patient")
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

	var in services.PatientInput
	if c.Request.Method == http.MethodPatch {
		in = services.PatientInputFrom(stored)
	}
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	patient, err := h.service.Update(ctx, accountID(c), id, in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewPatientDetailResponse(patient), http.StatusOK)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, err := parseID(c, "id", "patient")
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
