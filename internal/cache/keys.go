package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func WasteAssessmentKey(projectID uuid.UUID, inputHash string) string {
	return fmt.Sprintf("waste:%s:%s", projectID, inputHash)
}

func ForecastKey(projectID uuid.UUID, inputHash string) string {
	return fmt.Sprintf("forecast:%s:%s", projectID, inputHash)
}

func RateLimitKey(clientAddr string) string {
	return fmt.Sprintf("ratelimit:%s", clientAddr)
}
