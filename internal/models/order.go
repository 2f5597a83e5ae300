package models

import "github.com/google/uuid"

// Order is the finalized submission: the uploaded file plus everything the
// customer chose. It only lives for the duration of one request.
type Order struct {
	Reference     uuid.UUID
	FileName      string
	File          []byte
	CustomerEmail string
	Services      []string
	DeliveryLabel string
	TotalPrice    string
}

// AnalysisResult is what a document analysis yields.
type AnalysisResult struct {
	Format    string
	WordCount int
	PageCount int
}
