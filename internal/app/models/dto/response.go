package dto

// SuccessResponse represents a plain acknowledgement body
type SuccessResponse struct {
	Message string `json:"message"`
}
