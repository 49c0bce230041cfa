package models

// Button is a single inline keyboard button.
type Button struct {
	Text string // Label shown to the user
	Code string // Option code sent back as callback data
}

// Menu is the keyboard shown for a stage.
type Menu struct {
	Title string
	Rows  [][]Button
}

// Codes returns every option code of the menu in display order.
func (m Menu) Codes() []string {
	var codes []string
	for _, row := range m.Rows {
		for _, b := range row {
			codes = append(codes, b.Code)
		}
	}
	return codes
}
