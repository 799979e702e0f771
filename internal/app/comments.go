package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
)

func (app *Application) CreateComment(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateCommentRequest

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

	if _, err = app.movieRepo.GetById(r.Context(), movieId); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	comment := domain.Comment{
		MovieID: movieId,
		UserID:  app.contextGetUserId(r),
		Content: input.Content,
		Rating:  input.Rating,
	}

	err = app.commentRepo.Create(r.Context(), &comment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := http.Header{
		"Location": []string{fmt.Sprintf("/movies/%d/comments/%d", movieId, comment.ID)},
	}

	err = app.writeJSON(w, http.StatusCreated, toCommentResponse(comment), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieComments(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := app.readPagination(r)

	comments, metadata, err := app.commentRepo.GetByMovieId(r.Context(), movieId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	responses := make([]api.CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = toCommentResponse(comment)
	}

	resp := api.CommentListResponse{
		Comments: responses,
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteComment lets a customer remove their own comment; staff and admins may
// remove any comment.
func (app *Application) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentId, err := app.readIDParam(r, "commentId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.commentRepo.GetById(r.Context(), commentId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	userId := app.contextGetUserId(r)
	role := domain.Role(app.sessionManager.GetString(r.Context(), SessionKeyRole.String()))

	if comment.UserID != userId && role != domain.RoleStaff && role != domain.RoleAdmin {
		app.forbiddenResponse(w, r)
		return
	}

	err = app.commentRepo.Delete(r.Context(), commentId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCommentResponse(comment domain.Comment) api.CommentResponse {
	return api.CommentResponse{
		Id:         comment.ID,
		MovieId:    comment.MovieID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		Rating:     comment.Rating,
		CreatedAt:  comment.CreatedAt,
	}
}
