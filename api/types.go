// Package api contains the request and response types of the HTTP API.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the envelope for all non-validation errors.
type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

type UserActivationRequest struct {
	Token string `json:"token" validate:"required,len=43"`
}

type UserActivationResponse struct {
	Activated bool `json:"activated"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	Password  *string `json:"password" validate:"omitempty,password"`
}

type CreateMovieRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Genres      []string  `json:"genres" validate:"required,min=1"`
	Language    string    `json:"language" validate:"required"`
	ReleaseDate time.Time `json:"releaseDate" validate:"required"`
	Duration    int       `json:"duration" validate:"required,gt=0"`
	PosterUrl   string    `json:"posterUrl" validate:"omitempty,url"`
	Director    string    `json:"director"`
	CastMembers []string  `json:"castMembers"`
	Rating      float64   `json:"rating" validate:"gte=0,lte=10"`
}

type UpdateMovieRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	Genres      *[]string  `json:"genres" validate:"omitempty,min=1"`
	Language    *string    `json:"language"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Duration    *int       `json:"duration" validate:"omitempty,gt=0"`
	PosterUrl   *string    `json:"posterUrl" validate:"omitempty,url"`
	Director    *string    `json:"director"`
	CastMembers *[]string  `json:"castMembers"`
	Rating      *float64   `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

type MovieResponse struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	Language    string    `json:"language"`
	ReleaseDate time.Time `json:"releaseDate"`
	Duration    int       `json:"duration"`
	PosterUrl   string    `json:"posterUrl"`
	Director    string    `json:"director"`
	CastMembers []string  `json:"castMembers"`
	Rating      float64   `json:"rating"`
	Version     int       `json:"version"`
}

type MovieListResponse struct {
	Movies   []MovieResponse `json:"movies"`
	Metadata *Metadata       `json:"metadata,omitempty"`
}

type HallResponse struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type TheaterResponse struct {
	Id      int            `json:"id"`
	Name    string         `json:"name"`
	Address string         `json:"address"`
	City    string         `json:"city"`
	Halls   []HallResponse `json:"halls,omitempty"`
}

type TheaterListResponse struct {
	Theaters []TheaterResponse `json:"theaters"`
}

type SeatResponse struct {
	Id        int    `json:"id"`
	Label     string `json:"label"`
	Row       string `json:"row"`
	Column    int    `json:"column"`
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

type SeatMapResponse struct {
	ScreeningId int            `json:"screeningId"`
	HallId      int            `json:"hallId"`
	HallName    string         `json:"hallName"`
	Seats       []SeatResponse `json:"seats"`
}

type CreateScreeningRequest struct {
	MovieId   int             `json:"movieId" validate:"required,gt=0"`
	TheaterId int             `json:"theaterId" validate:"required,gt=0"`
	HallId    int             `json:"hallId" validate:"required,gt=0"`
	StartTime time.Time       `json:"startTime" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Quality   string          `json:"quality" validate:"required,oneof=2D 3D IMAX 4DX"`
}

type UpdateScreeningRequest struct {
	MovieId   *int             `json:"movieId" validate:"omitempty,gt=0"`
	TheaterId *int             `json:"theaterId" validate:"omitempty,gt=0"`
	HallId    *int             `json:"hallId" validate:"omitempty,gt=0"`
	StartTime *time.Time       `json:"startTime"`
	Price     *decimal.Decimal `json:"price"`
	Quality   *string          `json:"quality" validate:"omitempty,oneof=2D 3D IMAX 4DX"`
}

type ScreeningResponse struct {
	Id        int             `json:"id"`
	Code      string          `json:"code"`
	MovieId   int             `json:"movieId"`
	TheaterId int             `json:"theaterId"`
	HallId    int             `json:"hallId"`
	StartTime time.Time       `json:"startTime"`
	EndTime   time.Time       `json:"endTime"`
	Price     decimal.Decimal `json:"price"`
	Quality   string          `json:"quality"`
	Version   int             `json:"version"`
}

type ScreeningSummary struct {
	Id         int             `json:"id"`
	Code       string          `json:"code"`
	MovieTitle string          `json:"movieTitle"`
	HallName   string          `json:"hallName"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Price      decimal.Decimal `json:"price"`
	Quality    string          `json:"quality"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningSummary `json:"screenings"`
}

type CreateBookingRequest struct {
	ScreeningId int      `json:"screeningId" validate:"required,gt=0"`
	Seats       []string `json:"seats" validate:"required,min=1,max=10,dive,seat_label"`
}

type BookingResponse struct {
	Id          int             `json:"id"`
	Code        string          `json:"code"`
	ScreeningId int             `json:"screeningId"`
	Seats       []string        `json:"seats"`
	SeatsNumber int             `json:"seatsNumber"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int             `json:"version"`
}

type BookingSummary struct {
	Id          int             `json:"id"`
	Code        string          `json:"code"`
	MovieTitle  string          `json:"movieTitle"`
	TheaterName string          `json:"theaterName"`
	HallName    string          `json:"hallName"`
	StartTime   time.Time       `json:"startTime"`
	SeatsNumber int             `json:"seatsNumber"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BookingListResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata *Metadata        `json:"metadata,omitempty"`
}

type CreateIncidentRequest struct {
	TheaterId   int    `json:"theaterId" validate:"required,gt=0"`
	HallId      *int   `json:"hallId" validate:"omitempty,gt=0"`
	Category    string `json:"category" validate:"required,oneof=PROJECTION SOUND SEATING CLEANLINESS SAFETY OTHER"`
	Description string `json:"description" validate:"required,max=2000"`
}

type UpdateIncidentRequest struct {
	Category    *string `json:"category" validate:"omitempty,oneof=PROJECTION SOUND SEATING CLEANLINESS SAFETY OTHER"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED"`
}

type IncidentResponse struct {
	Id          int       `json:"id"`
	TheaterId   int       `json:"theaterId"`
	HallId      *int      `json:"hallId,omitempty"`
	ReporterId  int       `json:"reporterId"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int       `json:"version"`
}

type IncidentListResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	Metadata  *Metadata          `json:"metadata,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
}

type CommentResponse struct {
	Id         int       `json:"id"`
	MovieId    int       `json:"movieId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Metadata *Metadata         `json:"metadata,omitempty"`
}

type DailyStatsResponse struct {
	Date     string          `json:"date"`
	Bookings int             `json:"bookings"`
	Seats    int             `json:"seats"`
	Revenue  decimal.Decimal `json:"revenue"`
}
