package http

import (
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/validate"
	"github.com/vadimbarashkov/shortlink/internal/view"
)

const statusError = "error"

// shortenRequest represents a request to shorten a URL.
type shortenRequest struct {
	URL string `json:"url"`
}

// resultResponse represents a shortening result.
type resultResponse struct {
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	ShortCode   string `json:"shortCode"`
	ClickCount  int64  `json:"clickCount"`
	CreatedAt   string `json:"createdAt"`
}

func toResultResponse(r *entity.ShortenResult) resultResponse {
	return resultResponse{
		OriginalURL: r.OriginalURL,
		ShortURL:    r.ShortURL,
		ShortCode:   r.ShortCode,
		ClickCount:  r.ClickCount,
		CreatedAt:   r.CreatedAt,
	}
}

// historyItemResponse is a result with its relative age.
type historyItemResponse struct {
	resultResponse
	Age string `json:"age"`
}

// historyResponse represents the stored history.
type historyResponse struct {
	Items    []historyItemResponse `json:"items"`
	Degraded bool                  `json:"degraded"`
	Warning  string                `json:"warning,omitempty"`
}

func toHistoryResponse(items []view.Item, persistErr error) historyResponse {
	resp := historyResponse{
		Items: make([]historyItemResponse, 0, len(items)),
	}

	for _, it := range items {
		resp.Items = append(resp.Items, historyItemResponse{
			resultResponse: resultResponse{
				OriginalURL: it.OriginalURL,
				ShortURL:    it.ShortURL,
				ShortCode:   it.ShortCode,
				ClickCount:  it.ClickCount,
				CreatedAt:   it.CreatedAt,
			},
			Age: it.Age,
		})
	}

	if persistErr != nil {
		resp.Degraded = true
		resp.Warning = degradedWarning
	}

	return resp
}

const degradedWarning = "history could not be saved and will be lost on restart"

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Errors  []validate.Error `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	busyResponse = errorResponse{
		Status:  statusError,
		Message: entity.ErrBusy.Error(),
	}

	shortenFailedResponse = errorResponse{
		Status:  statusError,
		Message: entity.ErrShortenFailed.Error(),
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func validationErrorResponse(err *validate.Error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  []validate.Error{*err},
	}
}
