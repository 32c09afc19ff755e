// ABOUTME: Fitness questionnaire and profile records served without the response envelope
package models

import "encoding/json"

type QuestionOption struct {
	Value   int    `json:"value"`
	Label   string `json:"label"`
	LabelZh string `json:"labelZh,omitempty"`
}

type Question struct {
	ID         string           `json:"id"`
	Question   string           `json:"question"`
	QuestionZh string           `json:"questionZh"`
	Options    []QuestionOption `json:"options"`
}

type Questionnaire struct {
	Questions   []Question `json:"questions"`
	AgeQuestion Question   `json:"ageQuestion"`
}

type QuestionnaireSubmission struct {
	UserID                 string `json:"userId"`
	WeeklyExercise         int    `json:"weeklyExercise"`
	LongestHike            int    `json:"longestHike"`
	ElevationExperience    int    `json:"elevationExperience"`
	AgeGroupIndex          int    `json:"ageGroupIndex"`
	RiskTolerance          string `json:"riskTolerance,omitempty"`
	HighAltitudeExperience string `json:"highAltitudeExperience,omitempty"`
	Pace                   string `json:"pace,omitempty"`
}

type FitnessProfile struct {
	OverallScore               float64         `json:"overallScore"`
	FitnessLevel               string          `json:"fitnessLevel"`
	LevelDescription           string          `json:"levelDescription"`
	Confidence                 string          `json:"confidence"`
	ConfidenceDescription      string          `json:"confidenceDescription"`
	Dimensions                 json.RawMessage `json:"dimensions,omitempty"`
	RecommendedDailyAscentM    float64         `json:"recommendedDailyAscentM"`
	RecommendedDailyDistanceKm float64         `json:"recommendedDailyDistanceKm"`
	CompletedTripCount         int             `json:"completedTripCount"`
}

type QuestionnaireResult struct {
	Success bool            `json:"success"`
	Model   json.RawMessage `json:"model"`
	Profile FitnessProfile  `json:"profile"`
}
