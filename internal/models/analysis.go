package models

import "time"

// AnalysisResult is the structured answer of the AI assistant.
type AnalysisResult struct {
	Analysis        string    `json:"analysis"`
	Recommendations []string  `json:"recommendations"`
	Anomalies       []string  `json:"anomalies"`
	Model           string    `json:"model,omitempty"`
	Cached          bool      `json:"cached"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// VisionResult describes what the model saw in a plant photo.
type VisionResult struct {
	Description     string   `json:"description"`
	HealthStatus    string   `json:"health_status"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	EstimatedPhase  string   `json:"estimated_phase,omitempty"`
}
