package models

import "time"

// Activity statuses and insight severities are free-form strings in the
// platform UI; the server validates only what it depends on.

// Activity is a business activity (a venture or line of business).
type Activity struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Sector          string    `json:"sector"`
	LifecycleStage  string    `json:"lifecycle_stage"`
	Archived        bool      `json:"archived"`
	Revenue         float64   `json:"revenue"`
	PreviousRevenue float64   `json:"previous_revenue"`
	Margin          float64   `json:"margin"`
	CAC             float64   `json:"cac"`
	LTV             float64   `json:"ltv"`
	ROI             float64   `json:"roi"`
	BurnRate        float64   `json:"burn_rate"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Project statuses used by context gathering.
const (
	ProjectStatusActive   = "active"
	ProjectStatusPlanning = "planning"
)

// Project is a project under an activity.
type Project struct {
	ID              string    `json:"id"`
	ActivityID      string    `json:"activity_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Progress        float64   `json:"progress"`
	Budget          float64   `json:"budget"`
	Spent           float64   `json:"spent"`
	ExpectedRevenue float64   `json:"expected_revenue"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Task statuses considered "open" for context gathering.
const (
	TaskStatusBacklog    = "backlog"
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"
)

// OpenTaskStatuses lists the statuses treated as open work.
func OpenTaskStatuses() []string {
	return []string{TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusBlocked}
}

// Task is a unit of project work.
type Task struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	Deadline       string    `json:"deadline"`
	Owner          string    `json:"owner"`
	EstimatedHours float64   `json:"estimated_hours"`
	ActualHours    float64   `json:"actual_hours"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BIMetric is one period's business-intelligence reading for an activity.
type BIMetric struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Period     string    `json:"period"`
	Revenue    float64   `json:"revenue"`
	Costs      float64   `json:"costs"`
	Profit     float64   `json:"profit"`
	Customers  int       `json:"customers"`
	ChurnRate  float64   `json:"churn_rate"`
	MRR        float64   `json:"mrr"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarketRow is a stored market-context row (competitor and benchmark data
// captured per activity; distinct from the live market snapshot).
type MarketRow struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Region     string    `json:"region"`
	MarketSize float64   `json:"market_size"`
	GrowthRate float64   `json:"growth_rate"`
	Trends     []string  `json:"trends"`
	Risks      []string  `json:"risks"`
	CreatedAt  time.Time `json:"created_at"`
}

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Insight is a persisted AI-generated insight record.
type Insight struct {
	ID                string    `json:"id"`
	AgentTask         AgentTask `json:"agent_task"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Severity          string    `json:"severity"`
	Recommendation    string    `json:"recommendation"`
	RelatedEntityID   string    `json:"related_entity_id"`
	RelatedEntityType string    `json:"related_entity_type"`
	CreatedAt         time.Time `json:"created_at"`
}
