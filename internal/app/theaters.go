package app

import (
	"errors"
	"net/http"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
)

func (app *Application) GetTheaters(w http.ResponseWriter, r *http.Request) {
	theaters, err := app.theaterRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	responses := make([]api.TheaterResponse, len(theaters))
	for i, theater := range theaters {
		responses[i] = toTheaterResponse(theater)
	}

	resp := api.TheaterListResponse{Theaters: responses}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTheater(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "theaterId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	theater, err := app.theaterRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toTheaterResponse(*theater), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toTheaterResponse(theater domain.Theater) api.TheaterResponse {
	resp := api.TheaterResponse{
		Id:      theater.ID,
		Name:    theater.Name,
		Address: theater.Address,
		City:    theater.City,
	}

	for _, hall := range theater.Halls {
		resp.Halls = append(resp.Halls, api.HallResponse{
			Id:   hall.ID,
			Name: hall.Name,
		})
	}

	return resp
}
