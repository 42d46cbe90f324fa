package models

// RiskLevel classifies a meltdown-risk assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Valid reports whether the risk level is a known classification.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// AlertWorthy reports whether the level warrants a caregiver alert.
func (r RiskLevel) AlertWorthy() bool {
	return r == RiskHigh || r == RiskCritical
}

// Prediction is the oracle's assessment of recent log history. It is
// held in memory as the latest known result per child and replaced
// wholesale on each settled assessment; it is never persisted.
type Prediction struct {
	RiskScore       int       `json:"riskScore"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Explanation     string    `json:"explanation"`
	Recommendations []string  `json:"recommendations"`
}
