// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	logRequest → recordMetrics → recoverPanic → enableCORS → rateLimit → router
//
// Endpoints:
//
//	GET    /doctors                      – list doctors
//	POST   /doctors                      – create a doctor
//	GET    /doctors/full                 – list doctors with their patients
//	GET    /doctors/:id                  – retrieve a doctor
//	PUT    /doctors/:id                  – replace a doctor
//	DELETE /doctors/:id                  – delete a doctor
//	GET    /doctors/:id/patients         – patients of one doctor
//	GET    /patients/byDoctor/:doctorId  – patients of one doctor
//	POST   /patients                     – create a patient
//	PUT    /patients/:id                 – replace a patient
//	DELETE /patients/:id                 – delete a patient
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.metrics.registry, promhttp.HandlerOpts{}))

	router.HandlerFunc(http.MethodGet, "/doctors", app.listDoctorsHandler)
	router.HandlerFunc(http.MethodPost, "/doctors", app.createDoctorHandler)
	router.HandlerFunc(http.MethodGet, "/doctors/:id", app.showDoctorHandler)
	router.HandlerFunc(http.MethodPut, "/doctors/:id", app.updateDoctorHandler)
	router.HandlerFunc(http.MethodDelete, "/doctors/:id", app.deleteDoctorHandler)
	router.HandlerFunc(http.MethodGet, "/doctors/:id/patients", app.listPatientsForDoctorHandler("id"))

	router.HandlerFunc(http.MethodGet, "/patients/byDoctor/:doctorId", app.listPatientsForDoctorHandler("doctorId"))
	router.HandlerFunc(http.MethodPost, "/patients", app.createPatientHandler)
	router.HandlerFunc(http.MethodPut, "/patients/:id", app.updatePatientHandler)
	router.HandlerFunc(http.MethodDelete, "/patients/:id", app.deletePatientHandler)

	return app.logRequest(app.recordMetrics(app.recoverPanic(app.enableCORS(app.rateLimit(router)))))
}
