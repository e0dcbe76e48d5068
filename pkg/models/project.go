package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a construction project tracked by the platform.
type Project struct {
	ID                  uuid.UUID `db:"id"                    json:"id"`
	Name                string    `db:"name"                  json:"name"`
	Budget              float64   `db:"budget"                json:"budget"`
	PlannedDurationDays int       `db:"planned_duration_days" json:"planned_duration_days"`
	StartDate           time.Time `db:"start_date"            json:"start_date"`
	CreatedAt           time.Time `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"            json:"updated_at"`
}

// Info returns the forecast-engine metadata view of the project.
func (p *Project) Info() ProjectInfo {
	return ProjectInfo{
		Budget:              p.Budget,
		PlannedDurationDays: p.PlannedDurationDays,
		StartDate:           p.StartDate,
	}
}
