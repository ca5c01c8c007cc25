package models

// QueryRequest is the body accepted by the chat query endpoint.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse always carries a displayable answer, even on failure.
type QueryResponse struct {
	Answer string `json:"answer"`
}
