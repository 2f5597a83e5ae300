package models

type AnalyzeResponse struct {
	WordCount int `json:"wordCount"`
	PageCount int `json:"pageCount"`
}

type SubmitOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type PricingResponse struct {
	Currency     string            `json:"currency"`
	WordsPerPage int               `json:"wordsPerPage"`
	Services     []ServicePricing  `json:"services"`
	Speeds       []SpeedDefinition `json:"speeds"`
}

type ServicePricing struct {
	ID    string            `json:"id"`
	Label string            `json:"label"`
	Rates map[string]string `json:"rates"`
}

type SpeedDefinition struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
