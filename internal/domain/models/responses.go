package models

// Response bodies of the HTTP API that are not domain results.

type UniversitiesResponse struct {
	Universities []string `json:"universities"`
	Total        int      `json:"total"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
