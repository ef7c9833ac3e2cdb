package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOutreachSweep = "outreach.sweep"

// SweepPayload carries everything a background sweep needs. The mailbox token
// is optional; without it only the LinkedIn channel and SMTP forwards run.
type SweepPayload struct {
	UserEmail        string `json:"userEmail"`
	UserName         string `json:"userName,omitempty"`
	UserLinkedIn     string `json:"userLinkedin,omitempty"`
	UnipileAccountID string `json:"unipileAccountId,omitempty"`
	GraphToken       string `json:"graphToken,omitempty"`
	ForceDeepCheck   bool   `json:"forceDeepCheck,omitempty"`
}

func NewOutreachSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOutreachSweep, data), nil
}

func ParseSweepPayload(task *asynq.Task) (SweepPayload, error) {
	var payload SweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SweepPayload{}, err
	}
	return payload, nil
}
