package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background   tcell.Color
	Foreground   tcell.Color
	HeaderBg     tcell.Color
	HeaderFg     tcell.Color
	SelectionBg  tcell.Color
	SelectionFg  tcell.Color
	DimFg        tcell.Color
	ErrorFg      tcell.Color
	DirectoryFg  tcell.Color
	SearchFg     tcell.Color
	MatchFg      tcell.Color
	ActionFg     tcell.Color
	MenuBg       tcell.Color
	MenuFg       tcell.Color
	MenuActiveBg tcell.Color
	MenuActiveFg tcell.Color
	FooterBg     tcell.Color
	FooterFg     tcell.Color
	FlashBg      tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:   tcell.ColorDefault,
		Foreground:   tcell.ColorDefault,
		HeaderBg:     tcell.ColorDefault,
		HeaderFg:     tcell.ColorDefault,
		SelectionBg:  tcell.Color33,
		SelectionFg:  tcell.ColorWhite,
		DimFg:        tcell.ColorLightSlateGray,
		ErrorFg:      tcell.Color203,
		DirectoryFg:  tcell.Color33,
		SearchFg:     tcell.Color44,
		MatchFg:      tcell.Color214,
		ActionFg:     tcell.ColorLightSlateGray,
		MenuBg:       tcell.Color236,
		MenuFg:       tcell.Color252,
		MenuActiveBg: tcell.Color33,
		MenuActiveFg: tcell.ColorWhite,
		FooterBg:     tcell.ColorDefault,
		FooterFg:     tcell.ColorDefault,
		FlashBg:      tcell.Color28,
	}
}
