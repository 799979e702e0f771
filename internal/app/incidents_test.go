package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/cinevo/cinema-api/internal/mocks"
	"github.com/stretchr/testify/mock"
)

func TestCreateIncidentHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           api.CreateIncidentRequest
		setupMocks     func(tr *mocks.MockTheaterRepo, ir *mocks.MockIncidentRepo)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "invalid category",
			body: api.CreateIncidentRequest{
				TheaterId:   1,
				Category:    "WIFI",
				Description: "Projector flickers during dark scenes",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be one of: PROJECTION SOUND SEATING CLEANLINESS SAFETY OTHER",
		},
		{
			name: "theater does not exist",
			body: api.CreateIncidentRequest{
				TheaterId:   99,
				Category:    "PROJECTION",
				Description: "Projector flickers during dark scenes",
			},
			setupMocks: func(tr *mocks.MockTheaterRepo, ir *mocks.MockIncidentRepo) {
				tr.On("GetById", mock.Anything, 99).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "The requested resource not found",
		},
		{
			name: "hall does not belong to the theater",
			body: api.CreateIncidentRequest{
				TheaterId:   1,
				HallId:      ptr(8),
				Category:    "SEATING",
				Description: "Broken armrest in row C",
			},
			setupMocks: func(tr *mocks.MockTheaterRepo, ir *mocks.MockIncidentRepo) {
				tr.On("GetById", mock.Anything, 1).Return(&domain.Theater{ID: 1, Name: "Downtown"}, nil)
				tr.On("GetHall", mock.Anything, 1, 8).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "The requested resource not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theaterRepo := &mocks.MockTheaterRepo{}
			incidentRepo := &mocks.MockIncidentRepo{}

			if tt.setupMocks != nil {
				tt.setupMocks(theaterRepo, incidentRepo)
			}

			app := newTestApplication(func(app *Application) {
				app.theaterRepo = theaterRepo
				app.incidentRepo = incidentRepo
			})

			w, r := executeRequest(t, http.MethodPost, "/incidents", tt.body)
			app.CreateIncident(w, asUser(r, 7))

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)
			incidentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateIncidentHandlerSuccess(t *testing.T) {
	theaterRepo := &mocks.MockTheaterRepo{}
	incidentRepo := &mocks.MockIncidentRepo{}

	theaterRepo.On("GetById", mock.Anything, 1).Return(&domain.Theater{ID: 1, Name: "Downtown"}, nil)
	theaterRepo.On("GetHall", mock.Anything, 1, 3).Return(&domain.Hall{ID: 3, TheaterID: 1}, nil)
	incidentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Incident")).
		Run(func(args mock.Arguments) {
			incident := args.Get(1).(*domain.Incident)
			incident.ID = 21
			incident.Version = 1
		}).
		Return(nil)

	app := newTestApplication(func(app *Application) {
		app.theaterRepo = theaterRepo
		app.incidentRepo = incidentRepo
	})

	body := api.CreateIncidentRequest{
		TheaterId:   1,
		HallId:      ptr(3),
		Category:    "SOUND",
		Description: "Left surround channel is dead",
	}

	w, r := executeRequest(t, http.MethodPost, "/incidents", body)
	app.CreateIncident(w, asUser(r, 7))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp api.IncidentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode incident response: %v", err)
	}

	if resp.Id != 21 {
		t.Errorf("Id = %d, want 21", resp.Id)
	}
	if resp.ReporterId != 7 {
		t.Errorf("ReporterId = %d, want 7", resp.ReporterId)
	}
	if resp.Status != string(domain.IncidentStatusOpen) {
		t.Errorf("Status = %s, want %s", resp.Status, domain.IncidentStatusOpen)
	}
	if w.Header().Get("Location") != "/incidents/21" {
		t.Errorf("Location = %s, want /incidents/21", w.Header().Get("Location"))
	}

	incidentRepo.AssertExpectations(t)
}

func TestGetIncidentsHandler(t *testing.T) {
	t.Run("rejects an unknown status filter", func(t *testing.T) {
		incidentRepo := &mocks.MockIncidentRepo{}

		app := newTestApplication(func(app *Application) {
			app.incidentRepo = incidentRepo
		})

		w, r := executeRequest(t, http.MethodGet, "/incidents?status=BROKEN", nil)
		app.GetIncidents(w, r)

		checkErrorResponse(t, w, http.StatusBadRequest, "invalid status parameter")
		incidentRepo.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything)
	})

	t.Run("passes theater and status filters through", func(t *testing.T) {
		incidentRepo := &mocks.MockIncidentRepo{}

		incidentRepo.On("GetAll", mock.Anything, mock.MatchedBy(func(filters domain.IncidentFilters) bool {
			return filters.TheaterID == 2 && filters.Status == domain.IncidentStatusOpen
		})).Return([]domain.Incident{
			{ID: 21, TheaterID: 2, ReporterID: 7, Category: "SOUND", Status: domain.IncidentStatusOpen},
		}, domain.NewMetadata(1, 1, 10), nil)

		app := newTestApplication(func(app *Application) {
			app.incidentRepo = incidentRepo
		})

		w, r := executeRequest(t, http.MethodGet, "/incidents?theaterId=2&status=OPEN", nil)
		app.GetIncidents(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp api.IncidentListResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode incident list response: %v", err)
		}

		if len(resp.Incidents) != 1 || resp.Incidents[0].Id != 21 {
			t.Errorf("Incidents = %+v, want a single incident with id 21", resp.Incidents)
		}
		if resp.Metadata == nil || resp.Metadata.TotalRecords != 1 {
			t.Errorf("Metadata = %+v, want 1 total record", resp.Metadata)
		}
	})
}
