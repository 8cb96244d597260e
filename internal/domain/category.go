package domain

import "time"

// Category groups complaints and carries an SLA target in hours.
// Note: sla_hours is stored but the due-date computation currently uses a
// flat offset instead (see DefaultDueDateOffset).
type Category struct {
	ID          string
	Name        string
	Description *string
	SLAHours    int
	CreatedAt   time.Time
}

// SeededCategoryIDs maps form selector keys to the fixed category rows the
// seeder installs.
var SeededCategoryIDs = map[string]string{
	"technical_support":  "00000000-0000-0000-0000-000000000011",
	"product":            "00000000-0000-0000-0000-000000000013",
	"service_quality":    "00000000-0000-0000-0000-000000000014",
	"provider_conduct":   "00000000-0000-0000-0000-000000000015",
	"access_eligibility": "00000000-0000-0000-0000-000000000016",
	"privacy_concern":    "00000000-0000-0000-0000-000000000017",
}

// CategoryLabels maps selector keys to display names used when a category
// has to be looked up or created by name.
var CategoryLabels = map[string]string{
	"technical_support":  "Technical Support",
	"product":            "Product",
	"service_quality":    "Service Quality",
	"provider_conduct":   "Provider Conduct",
	"access_eligibility": "Access and Eligibility",
	"privacy_concern":    "Privacy Concern",
}

// CreatedCategorySLAHours is applied to categories created on demand from
// free-text input.
const CreatedCategorySLAHours = 48
