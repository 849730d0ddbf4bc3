package model

// Profile is the human-readable interpretation of a cluster.
type Profile struct {
	LearnerType string   `json:"learner_type"`
	Strength    []string `json:"strength"`
	Weakness    []string `json:"weakness"`
	Tips        []string `json:"tips"`
}

// ClusterAssignment is the outcome of assigning one feature vector.
type ClusterAssignment struct {
	Cluster     int     `json:"cluster"`
	Distance    float64 `json:"distance"`
	LearnerType Profile `json:"learner_type"`
}

// Inference is the full result returned for one learner.
type Inference struct {
	UserID     string            `json:"user_id"`
	Features   FeatureVector     `json:"features"`
	Assignment ClusterAssignment `json:"result"`
}
