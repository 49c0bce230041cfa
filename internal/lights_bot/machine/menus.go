package machine

import (
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/constant"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
)

var effectNames = map[string]string{
	constant.BUTTON_CODE_EFF_SOLID:     constant.EFFECT_SOLID,
	constant.BUTTON_CODE_EFF_FILLCOLOR: constant.EFFECT_FILL_COLOR,
	constant.BUTTON_CODE_EFF_SNOW:      constant.EFFECT_SNOW,
	constant.BUTTON_CODE_EFF_SPARKLES:  constant.EFFECT_SPARKLES,
	constant.BUTTON_CODE_EFF_MATRIX:    constant.EFFECT_MATRIX,
	constant.BUTTON_CODE_EFF_STARFALL:  constant.EFFECT_STARFALL,
	constant.BUTTON_CODE_EFF_BALL:      constant.EFFECT_BALL,
	constant.BUTTON_CODE_EFF_BALLS:     constant.EFFECT_BALLS,
	constant.BUTTON_CODE_EFF_FIRE:      constant.EFFECT_FIRE,
	constant.BUTTON_CODE_EFF_FIRE2:     constant.EFFECT_FIRE2,
	constant.BUTTON_CODE_EFF_NYTREE:    constant.EFFECT_NYTREE,
}

var mainMenu = models.Menu{
	Title: constant.TEXT_CHOOSE_ACTION,
	Rows: [][]models.Button{
		{{Text: constant.BUTTON_TEXT_STATE, Code: constant.BUTTON_CODE_STATE}},
		{{Text: constant.BUTTON_TEXT_EFFECT, Code: constant.BUTTON_CODE_EFFECT}},
		{{Text: constant.BUTTON_TEXT_BRIGHTNESS, Code: constant.BUTTON_CODE_BRIGHTNESS}},
	},
}

var stateMenu = models.Menu{
	Title: constant.TEXT_CHOOSE_STATE,
	Rows: [][]models.Button{
		{
			{Text: constant.BUTTON_TEXT_ON, Code: constant.BUTTON_CODE_ON},
			{Text: constant.BUTTON_TEXT_OFF, Code: constant.BUTTON_CODE_OFF},
		},
		{{Text: constant.BUTTON_TEXT_RETURN, Code: constant.BUTTON_CODE_MENU}},
	},
}

var effectsMenu = models.Menu{
	Title: constant.TEXT_CHOOSE_EFFECT,
	Rows: [][]models.Button{
		{
			{Text: "None", Code: constant.BUTTON_CODE_EFF_SOLID},
			{Text: "Fill", Code: constant.BUTTON_CODE_EFF_FILLCOLOR},
		},
		{
			{Text: "Snow", Code: constant.BUTTON_CODE_EFF_SNOW},
			{Text: "Sparkles", Code: constant.BUTTON_CODE_EFF_SPARKLES},
		},
		{
			{Text: "Matrix", Code: constant.BUTTON_CODE_EFF_MATRIX},
			{Text: "Starfall", Code: constant.BUTTON_CODE_EFF_STARFALL},
		},
		{
			{Text: "Ball", Code: constant.BUTTON_CODE_EFF_BALL},
			{Text: "Balls", Code: constant.BUTTON_CODE_EFF_BALLS},
		},
		{
			{Text: "Fire 1", Code: constant.BUTTON_CODE_EFF_FIRE},
			{Text: "Fire 2", Code: constant.BUTTON_CODE_EFF_FIRE2},
		},
		{{Text: "Tree", Code: constant.BUTTON_CODE_EFF_NYTREE}},
		{{Text: constant.BUTTON_TEXT_EXIT, Code: constant.BUTTON_CODE_MENU}},
	},
}

// Labels are percent of full brightness, codes carry the 0-255 value.
var brightnessMenu = models.Menu{
	Title: constant.TEXT_SET_BRIGHTNESS,
	Rows: [][]models.Button{
		{
			{Text: "10", Code: constant.BUTTON_CODE_BRI_25},
			{Text: "30", Code: constant.BUTTON_CODE_BRI_75},
			{Text: "40", Code: constant.BUTTON_CODE_BRI_100},
			{Text: "60", Code: constant.BUTTON_CODE_BRI_150},
			{Text: "90", Code: constant.BUTTON_CODE_BRI_225},
		},
		{
			{Text: "20", Code: constant.BUTTON_CODE_BRI_50},
			{Text: "75", Code: constant.BUTTON_CODE_BRI_190},
		},
		{
			{Text: "50", Code: constant.BUTTON_CODE_BRI_125},
			{Text: "100", Code: constant.BUTTON_CODE_BRI_255},
		},
		{{Text: constant.BUTTON_TEXT_EXIT, Code: constant.BUTTON_CODE_MENU}},
	},
}
