package dto

import "github.com/yukikurage/tenant-task-api/internal/utils"

// Response is the envelope of every successful API response.
type Response struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message,omitempty"`
	Data       interface{}               `json:"data,omitempty"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// WithMessage wraps data and a human readable message.
func WithMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Page wraps one page of a list. Pagination is omitted when paging is off.
func Page(data interface{}, params utils.PaginationParams, total int64) Response {
	return Response{
		Success:    true,
		Data:       data,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
