// cmd/api/doctors.go
// This file contains the HTTP request handlers for the doctors resource.
package main

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/hospital-records/internal/data"
)

// listDoctorsHandler handles GET /doctors.
func (app *applicationDependencies) listDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	doctors, err := app.models.Doctors.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doctors, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listDoctorsWithPatientsHandler handles GET /doctors/full, returning every
// doctor with its patients embedded.
func (app *applicationDependencies) listDoctorsWithPatientsHandler(w http.ResponseWriter, r *http.Request) {
	doctors, err := app.models.Doctors.GetAllWithPatients(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doctors, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showDoctorHandler handles GET /doctors/:id.
// httprouter cannot register /doctors/full next to /doctors/:id, so the
// literal "full" segment is dispatched from here.
func (app *applicationDependencies) showDoctorHandler(w http.ResponseWriter, r *http.Request) {
	if httprouter.ParamsFromContext(r.Context()).ByName("id") == "full" {
		app.listDoctorsWithPatientsHandler(w, r)
		return
	}

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	doctor, err := app.models.Doctors.Get(r.Context(), id)
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doctor, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createDoctorHandler handles POST /doctors.
// It responds 201 Created with the new doctor and a Location header
// pointing at GET /doctors/:id.
func (app *applicationDependencies) createDoctorHandler(w http.ResponseWriter, r *http.Request) {
	var input data.DoctorInput
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	doctor := input.Doctor()
	err = app.models.Doctors.Insert(r.Context(), doctor)
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/doctors/%d", doctor.ID))

	err = app.writeJSON(w, http.StatusCreated, doctor, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateDoctorHandler handles PUT /doctors/:id.
// The body replaces the doctor's fields wholesale and must carry the same id
// as the URL.
func (app *applicationDependencies) updateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input data.DoctorInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Doctors.Update(r.Context(), id, input.Doctor())
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteDoctorHandler handles DELETE /doctors/:id.
// Patients that referenced the doctor keep their doctorId.
func (app *applicationDependencies) deleteDoctorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Doctors.Delete(r.Context(), id)
	if err != nil {
		app.modelErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
