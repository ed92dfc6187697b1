package gupy

import "time"

// Config holds Gupy-specific knobs.
type Config struct {
	BaseURL     string
	MaxRequests int
	PageLimit   int
}

// apiResponse is the employability-portal search payload.
type apiResponse struct {
	Data       []apiJob `json:"data"`
	Pagination struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

// apiJob is one posting as the Gupy API reports it.
type apiJob struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CareerPageName string `json:"careerPageName"`
	CareerPageURL  string `json:"careerPageUrl"`
	CareerPageLogo string `json:"careerPageLogo"`
	Description    string `json:"description"`
	JobURL         string `json:"jobUrl"`
	PublishedDate  string `json:"publishedDate"`
	Type           string `json:"type"`
	WorkplaceType  string `json:"workplaceType"`
	IsRemoteWork   bool   `json:"isRemoteWork"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
}

// publishedAt parses the API's ISO timestamp ("2025-09-17T20:27:39.086Z").
func (j apiJob) publishedAt() *time.Time {
	if j.PublishedDate == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, j.PublishedDate)
	if err != nil {
		return nil
	}
	return &t
}
