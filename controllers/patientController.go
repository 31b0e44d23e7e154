package controllers

import (
	"PatientCare/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPatientRoutes mounts the patient, doctor and mapping routes. Every
// route expects an authenticated caller.
func SetupPatientRoutes(router gin.IRoutes, patientHandler *handlers.PatientHandler, doctorHandler *handlers.DoctorHandler, mappingHandler *handlers.MappingHandler) {
	router.GET("/patients", patientHandler.GetAllPatients)
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:id", patientHandler.GetPatientByID)
	router.PUT("/patients/:id", patientHandler.UpdatePatient)
	router.PATCH("/patients/:id", patientHandler.UpdatePatient)
	router.DELETE("/patients/:id", patientHandler.DeletePatient)

	router.GET("/doctors", doctorHandler.GetAllDoctors)
	router.POST("/doctors", doctorHandler.CreateDoctor)
	router.GET("/doctors/:id", doctorHandler.GetDoctorByID)
	router.PUT("/doctors/:id", doctorHandler.UpdateDoctor)
	router.PATCH("/doctors/:id", doctorHandler.UpdateDoctor)
	router.DELETE("/doctors/:id", doctorHandler.DeleteDoctor)

	router.GET("/mappings", mappingHandler.GetAllMappings)
	router.POST("/mappings", mappingHandler.CreateMapping)
	router.GET("/mappings/:patient_id", mappingHandler.GetPatientMappings)
	router.GET("/mappings/detail/:id", mappingHandler.GetMappingByID)
	router.PUT("/mappings/detail/:id", mappingHandler.UpdateMapping)
	router.PATCH("/mappings/detail/:id", mappingHandler.UpdateMapping)
	router.DELETE("/mappings/detail/:id", mappingHandler.DeleteMapping)
}
