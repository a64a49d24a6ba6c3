package models

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Upstream workflow event kinds the extractor reacts to
const (
	UpstreamEventNodeFinished     = "node_finished"
	UpstreamEventWorkflowFinished = "workflow_finished"
)

// UpstreamEvent is one decoded `data: {...}` line of the workflow stream.
type UpstreamEvent struct {
	Event          string         `json:"event"`
	TaskID         string         `json:"task_id,omitempty"`
	WorkflowRunID  string         `json:"workflow_run_id,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// NodeFinishedData is the payload of a node_finished event
type NodeFinishedData struct {
	NodeID   string `mapstructure:"node_id"`
	NodeType string `mapstructure:"node_type"`
	Title    string `mapstructure:"title"`
	Status   string `mapstructure:"status"`
	Outputs  struct {
		Text string `mapstructure:"text"`
	} `mapstructure:"outputs"`
}

// WorkflowFinishedData is the payload of a workflow_finished event
type WorkflowFinishedData struct {
	Status  string `mapstructure:"status"`
	Error   string `mapstructure:"error"`
	Outputs struct {
		Answer string `mapstructure:"answer"`
	} `mapstructure:"outputs"`
}

// NodeFinished decodes the payload as a node_finished event.
func (e UpstreamEvent) NodeFinished() (NodeFinishedData, error) {
	var out NodeFinishedData
	if err := decodePayload(e.Data, &out); err != nil {
		return out, fmt.Errorf("failed to decode node_finished payload: %w", err)
	}
	return out, nil
}

// WorkflowFinished decodes the payload as a workflow_finished event.
func (e UpstreamEvent) WorkflowFinished() (WorkflowFinishedData, error) {
	var out WorkflowFinishedData
	if err := decodePayload(e.Data, &out); err != nil {
		return out, fmt.Errorf("failed to decode workflow_finished payload: %w", err)
	}
	return out, nil
}

func decodePayload(data map[string]any, out any) error {
	if data == nil {
		return nil
	}
	// Outputs frequently carry fields we do not model (usage, files, ...)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(data)
}
