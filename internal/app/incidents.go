package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
)

func (app *Application) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var input api.CreateIncidentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if _, err = app.theaterRepo.GetById(r.Context(), input.TheaterId); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.HallId != nil {
		if _, err = app.theaterRepo.GetHall(r.Context(), input.TheaterId, *input.HallId); err != nil {
			switch {
			case errors.Is(err, domain.ErrRecordNotFound):
				app.notFoundResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}

			return
		}
	}

	incident := domain.Incident{
		TheaterID:   input.TheaterId,
		HallID:      input.HallId,
		ReporterID:  app.contextGetUserId(r),
		Category:    input.Category,
		Description: input.Description,
		Status:      domain.IncidentStatusOpen,
	}

	err = app.incidentRepo.Create(r.Context(), &incident)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := http.Header{
		"Location": []string{fmt.Sprintf("/incidents/%d", incident.ID)},
	}

	err = app.writeJSON(w, http.StatusCreated, toIncidentResponse(incident), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetIncidents(w http.ResponseWriter, r *http.Request) {
	filters := domain.IncidentFilters{
		Pagination: app.readPagination(r),
	}

	query := r.URL.Query()

	if theaterId, err := strconv.Atoi(query.Get("theaterId")); err == nil && theaterId > 0 {
		filters.TheaterID = theaterId
	}

	if status := query.Get("status"); status != "" {
		switch domain.IncidentStatus(status) {
		case domain.IncidentStatusOpen, domain.IncidentStatusInProgress, domain.IncidentStatusResolved:
			filters.Status = domain.IncidentStatus(status)
		default:
			app.badRequestResponse(w, r, fmt.Errorf("invalid status parameter"))
			return
		}
	}

	incidents, metadata, err := app.incidentRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	responses := make([]api.IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = toIncidentResponse(incident)
	}

	resp := api.IncidentListResponse{
		Incidents: responses,
		Metadata:  toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "incidentId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	incident, err := app.incidentRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toIncidentResponse(*incident), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "incidentId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateIncidentRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	incident, err := app.incidentRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.Category != nil {
		incident.Category = *input.Category
	}
	if input.Description != nil {
		incident.Description = *input.Description
	}
	if input.Status != nil {
		incident.Status = domain.IncidentStatus(*input.Status)
	}

	err = app.incidentRepo.Update(r.Context(), incident)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toIncidentResponse(*incident), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toIncidentResponse(incident domain.Incident) api.IncidentResponse {
	return api.IncidentResponse{
		Id:          incident.ID,
		TheaterId:   incident.TheaterID,
		HallId:      incident.HallID,
		ReporterId:  incident.ReporterID,
		Category:    incident.Category,
		Description: incident.Description,
		Status:      string(incident.Status),
		CreatedAt:   incident.CreatedAt,
		UpdatedAt:   incident.UpdatedAt,
		Version:     incident.Version,
	}
}
