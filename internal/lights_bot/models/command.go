package models

import (
	"encoding/json"
	"fmt"
)

// Command is the flat payload published to the lights controller.
// Exactly one field is set.
type Command struct {
	State      string `json:"state,omitempty"`      // "ON" or "OFF"
	Effect     string `json:"effect,omitempty"`     // Canonical effect name (e.g., "matrix")
	Brightness *int   `json:"brightness,omitempty"` // 0-255
}

// StateCommand builds {"state": "ON"|"OFF"}.
func StateCommand(on bool) Command {
	if on {
		return Command{State: "ON"}
	}
	return Command{State: "OFF"}
}

// EffectCommand builds {"effect": name}.
func EffectCommand(name string) Command {
	return Command{Effect: name}
}

// BrightnessCommand builds {"brightness": value}.
func BrightnessCommand(value int) Command {
	return Command{Brightness: &value}
}

// Payload returns the JSON document sent to the broker.
func (c Command) Payload() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}
	return data, nil
}

// String is used for logging.
func (c Command) String() string {
	switch {
	case c.State != "":
		return "state=" + c.State
	case c.Effect != "":
		return "effect=" + c.Effect
	case c.Brightness != nil:
		return fmt.Sprintf("brightness=%d", *c.Brightness)
	}
	return "empty"
}

// Kind returns the name of the field carried by the command.
func (c Command) Kind() string {
	switch {
	case c.State != "":
		return "state"
	case c.Effect != "":
		return "effect"
	case c.Brightness != nil:
		return "brightness"
	}
	return "empty"
}
