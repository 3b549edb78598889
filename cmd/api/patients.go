// cmd/api/patients.go
// This file contains the HTTP request handlers for the patients resource.
package main

import (
	"net/http"

	"github.com/aoideee/hospital-records/internal/data"
)

// listPatientsForDoctorHandler returns the patients whose doctorId equals the
// named URL parameter. It serves both GET /doctors/:id/patients and
// GET /patients/byDoctor/:doctorId, and answers an empty array for a doctor
// that does not exist.
func (app *applicationDependencies) listPatientsForDoctorHandler(param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := app.readIDParam(r, param)
		if err != nil {
			app.notFoundResponse(w, r)
			return
		}

		patients, err := app.models.Patients.GetAllForDoctor(r.Context(), doctorID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		err = app.writeJSON(w, http.StatusOK, patients, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

// createPatientHandler handles POST /patients and responds 200 OK with the
// stored patient. The doctorId is not checked against the doctors.
func (app *applicationDependencies) createPatientHandler(w http.ResponseWriter, r *http.Request) {
	var input data.PatientInput
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patient := input.Patient()
	err = app.models.Patients.Insert(r.Context(), patient)
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, patient, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updatePatientHandler handles PUT /patients/:id.
func (app *applicationDependencies) updatePatientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input data.PatientInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Patients.Update(r.Context(), id, input.Patient())
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deletePatientHandler handles DELETE /patients/:id.
func (app *applicationDependencies) deletePatientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Patients.Delete(r.Context(), id)
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
