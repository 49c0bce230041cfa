package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPayload(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"state on", StateCommand(true), `{"state":"ON"}`},
		{"state off", StateCommand(false), `{"state":"OFF"}`},
		{"effect", EffectCommand("fill_color"), `{"effect":"fill_color"}`},
		{"brightness", BrightnessCommand(150), `{"brightness":150}`},
		{"zero brightness is kept", BrightnessCommand(0), `{"brightness":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.cmd.Payload()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "state=ON", StateCommand(true).String())
	assert.Equal(t, "effect=snow", EffectCommand("snow").String())
	assert.Equal(t, "brightness=25", BrightnessCommand(25).String())
	assert.Equal(t, "empty", Command{}.String())
}

func TestMenuCodes(t *testing.T) {
	m := Menu{Rows: [][]Button{
		{{Text: "On", Code: "#ON#"}, {Text: "Off", Code: "#OFF#"}},
		{{Text: "Return", Code: "#menu#"}},
	}}
	assert.Equal(t, []string{"#ON#", "#OFF#", "#menu#"}, m.Codes())
}

func TestCommandKind(t *testing.T) {
	assert.Equal(t, "state", StateCommand(false).Kind())
	assert.Equal(t, "effect", EffectCommand("fire").Kind())
	assert.Equal(t, "brightness", BrightnessCommand(0).Kind())
	assert.Equal(t, "empty", Command{}.Kind())
}
