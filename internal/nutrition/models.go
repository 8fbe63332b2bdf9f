package nutrition

// GetPlanResponse is returned by GET /v1/plan.
type GetPlanResponse struct {
	Plan Plan   `json:"plan"`
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
