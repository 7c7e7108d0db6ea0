package ledger

import "github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"

// Score weights per severity bucket.
const (
	weightCritical = 30
	weightHigh     = 15
	weightOther    = 5
)

// Requirements names the capabilities the session configuration demands;
// only required-but-denied capabilities become technical issues.
type Requirements struct {
	Camera     bool
	Microphone bool
}

// Summarize is a pure function of the event list and permission state.
// Technical issues are informational and never affect the score.
func Summarize(events []model.SecurityEvent, perms model.PermissionState, req Requirements) model.IntegritySummary {
	score := 100
	for _, ev := range events {
		switch ev.Severity {
		case model.SeverityCritical:
			score -= weightCritical
		case model.SeverityHigh:
			score -= weightHigh
		default:
			score -= weightOther
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	issues := []string{}
	if req.Camera && !perms.Camera {
		issues = append(issues, "Camera access denied")
	}
	if req.Microphone && !perms.Microphone {
		issues = append(issues, "Microphone access denied")
	}
	for _, ev := range events {
		if ev.Type == model.EventCameraBlocked {
			issues = append(issues, "Camera was blocked during the session")
			break
		}
	}

	return model.IntegritySummary{
		IntegrityScore:  score,
		ViolationsCount: len(events),
		TechnicalIssues: issues,
	}
}
