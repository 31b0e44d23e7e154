package handlers

import (
	"PatientCare/middlewares"
	"PatientCare/models"
	"PatientCare/services"
	"PatientCare/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	filter := models.DoctorFilter{
		Specialization: models.Specialization(c.Query("specialization")),
		City:           c.Query("city"),
	}
	if filter.Specialization != "" && !filter.Specialization.IsValid() {
		middlewares.RespondError(c, invalidChoice("specialization", string(filter.Specialization)))
		return
	}

	page := pageRequest(c)
	doctors, count, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, utils.NewPage(NewDoctorResponses(doctors), count, page), http.StatusOK)
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var in services.DoctorInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	doctor, err := h.service.Create(c.Request.Context(), accountID(c), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewDoctorResponse(doctor), http.StatusCreated)
}

// GetDoctorByID is open to every authenticated account
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	id, err := parseID(c, "id", "doctor")
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewDoctorDetailResponse(doctor), http.StatusOK)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, err := parseID(c, "id", "doctor")
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

	var in services.DoctorInput
	if c.Request.Method == http.MethodPatch {
		in = services.DoctorInputFrom(stored)
	}
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	doctor, err := h.service.Update(ctx, accountID(c), id, in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewDoctorDetailResponse(doctor), http.StatusOK)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, err := parseID(c, "id", "doctor")
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
