package constant

const (
	EMOJI_KEYCAP_ONE  = "1\U0000FE0F\U000020E3" //1️⃣
	EMOJI_KEYCAP_ZERO = "0\U0000FE0F\U000020E3" //0️⃣
	EMOJI_FIRE        = "\U0001F525"           //🔥
	EMOJI_SUN         = "\U0001F31E"           //🌞
	EMOJI_NEW_MOON    = "\U0001F311"           //🌑

	COMMAND_START = "start"

	TEXT_CHOOSE_ACTION  = "Choose an action"
	TEXT_CHOOSE_STATE   = "Choose a state"
	TEXT_CHOOSE_EFFECT  = "Choose an effect"
	TEXT_SET_BRIGHTNESS = "Set a brightness"

	BUTTON_TEXT_STATE      = EMOJI_KEYCAP_ONE + " On/Off " + EMOJI_KEYCAP_ZERO
	BUTTON_TEXT_EFFECT     = EMOJI_FIRE + " Effect " + EMOJI_FIRE
	BUTTON_TEXT_BRIGHTNESS = EMOJI_SUN + " Brightness " + EMOJI_NEW_MOON
	BUTTON_TEXT_ON         = "On"
	BUTTON_TEXT_OFF        = "Off"
	BUTTON_TEXT_RETURN     = "Return"
	BUTTON_TEXT_EXIT       = "Exit"

	BUTTON_CODE_MENU       = "#menu#"
	BUTTON_CODE_STATE      = "#state#"
	BUTTON_CODE_EFFECT     = "#effect#"
	BUTTON_CODE_BRIGHTNESS = "#brightness#"
	BUTTON_CODE_ON         = "#ON#"
	BUTTON_CODE_OFF        = "#OFF#"

	BUTTON_CODE_EFF_SOLID     = "#EFF-SOLID#"
	BUTTON_CODE_EFF_FILLCOLOR = "#EFF-FILLCOLOR#"
	BUTTON_CODE_EFF_SNOW      = "#EFF-SNOW#"
	BUTTON_CODE_EFF_SPARKLES  = "#EFF-SPARKLES#"
	BUTTON_CODE_EFF_MATRIX    = "#EFF-MATRIX#"
	BUTTON_CODE_EFF_STARFALL  = "#EFF-STARFALL#"
	BUTTON_CODE_EFF_BALL      = "#EFF-BALL#"
	BUTTON_CODE_EFF_BALLS     = "#EFF-BALLS#"
	BUTTON_CODE_EFF_FIRE      = "#EFF-FIRE#"
	BUTTON_CODE_EFF_FIRE2     = "#EFF-FIRE2#"
	BUTTON_CODE_EFF_NYTREE    = "#EFF-NYTREE#"

	BUTTON_CODE_BRI_25  = "#BRI-25#"
	BUTTON_CODE_BRI_50  = "#BRI-50#"
	BUTTON_CODE_BRI_75  = "#BRI-75#"
	BUTTON_CODE_BRI_100 = "#BRI-100#"
	BUTTON_CODE_BRI_125 = "#BRI-125#"
	BUTTON_CODE_BRI_150 = "#BRI-150#"
	BUTTON_CODE_BRI_190 = "#BRI-190#"
	BUTTON_CODE_BRI_225 = "#BRI-225#"
	BUTTON_CODE_BRI_255 = "#BRI-255#"

	EFFECT_SOLID      = "solid"
	EFFECT_FILL_COLOR = "fill_color"
	EFFECT_SNOW       = "snow"
	EFFECT_SPARKLES   = "sparkles"
	EFFECT_MATRIX     = "matrix"
	EFFECT_STARFALL   = "starfall"
	EFFECT_BALL       = "ball"
	EFFECT_BALLS      = "balls"
	EFFECT_FIRE       = "fire"
	EFFECT_FIRE2      = "fire2"
	EFFECT_NYTREE     = "nytree"

	STATE_ON  = "ON"
	STATE_OFF = "OFF"

	DEFAULT_COMMAND_TOPIC = "diy/christmas-lights/command"
)
