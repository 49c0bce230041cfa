// Package machine holds the conversation state machine of the lights bot.
// It is a pure mapping of (stage, option code) to the next stage and an
// optional command; storing the stage is up to the caller.
package machine

import (
	"regexp"
	"strconv"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/constant"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
)

// Result is the outcome of a selection.
type Result struct {
	Next    models.Stage    // Stage after the selection
	Command *models.Command // Command to publish, nil if none
	Handled bool            // False when the code is unknown in the stage
}

// option reacts to a selected option code.
type option func(code string) Result

// Machine maps option codes to transitions, one lookup table per stage.
type Machine struct {
	stages map[models.Stage]map[string]option
	menus  map[models.Stage]models.Menu
}

var brightnessCode = regexp.MustCompile(`^#BRI-(\d+)#$`)

// New builds the machine with the main, state, effect and brightness stages.
func New() *Machine {
	m := &Machine{
		stages: make(map[models.Stage]map[string]option),
		menus: map[models.Stage]models.Menu{
			models.StageMain:       mainMenu,
			models.StageState:      stateMenu,
			models.StageEffect:     effectsMenu,
			models.StageBrightness: brightnessMenu,
		},
	}

	m.stages[models.StageMain] = map[string]option{
		constant.BUTTON_CODE_MENU:       goTo(models.StageMain),
		constant.BUTTON_CODE_STATE:      goTo(models.StageState),
		constant.BUTTON_CODE_EFFECT:     goTo(models.StageEffect),
		constant.BUTTON_CODE_BRIGHTNESS: goTo(models.StageBrightness),
	}

	m.stages[models.StageState] = map[string]option{
		constant.BUTTON_CODE_MENU: goTo(models.StageMain),
		constant.BUTTON_CODE_ON:   emit(models.StageState, models.StateCommand(true)),
		constant.BUTTON_CODE_OFF:  emit(models.StageState, models.StateCommand(false)),
	}

	effects := map[string]option{constant.BUTTON_CODE_MENU: goTo(models.StageMain)}
	for code, name := range effectNames {
		effects[code] = emit(models.StageEffect, models.EffectCommand(name))
	}
	m.stages[models.StageEffect] = effects

	brightness := map[string]option{constant.BUTTON_CODE_MENU: goTo(models.StageMain)}
	for _, code := range brightnessMenu.Codes() {
		if code != constant.BUTTON_CODE_MENU {
			brightness[code] = setBrightness
		}
	}
	m.stages[models.StageBrightness] = brightness

	return m
}

// Start returns the stage entered by /start, whatever the current stage is.
func (m *Machine) Start() models.Stage {
	return models.StageMain
}

// Select dispatches an option code selected while stage is shown.
// Unknown codes, unknown stages and malformed payloads leave the stage unchanged.
func (m *Machine) Select(stage models.Stage, code string) Result {
	handlers, ok := m.stages[stage]
	if !ok {
		return Result{Next: stage}
	}
	handle, ok := handlers[code]
	if !ok {
		return Result{Next: stage}
	}
	res := handle(code)
	if !res.Handled {
		res.Next = stage
	}
	return res
}

// Menu returns the keyboard of a stage.
func (m *Machine) Menu(stage models.Stage) (models.Menu, bool) {
	menu, ok := m.menus[stage]
	return menu, ok
}

// Codes returns the option codes registered for a stage.
func (m *Machine) Codes(stage models.Stage) []string {
	codes := make([]string, 0, len(m.stages[stage]))
	for code := range m.stages[stage] {
		codes = append(codes, code)
	}
	return codes
}

func goTo(next models.Stage) option {
	return func(string) Result {
		return Result{Next: next, Handled: true}
	}
}

func emit(stay models.Stage, cmd models.Command) option {
	return func(string) Result {
		c := cmd
		return Result{Next: stay, Command: &c, Handled: true}
	}
}

func setBrightness(code string) Result {
	value, ok := ParseBrightness(code)
	if !ok {
		return Result{}
	}
	cmd := models.BrightnessCommand(value)
	return Result{Next: models.StageBrightness, Command: &cmd, Handled: true}
}

// ParseBrightness extracts the 0-255 value of a "#BRI-<n>#" option code.
func ParseBrightness(code string) (int, bool) {
	match := brightnessCode.FindStringSubmatch(code)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil || value < 0 || value > 255 {
		return 0, false
	}
	return value, true
}
