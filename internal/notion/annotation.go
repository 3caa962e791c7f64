package notion

import "strings"

// Color is a text or block color. The *_background values form the
// background subset.
type Color string

const (
	ColorDefault          Color = "default"
	ColorGray             Color = "gray"
	ColorBrown            Color = "brown"
	ColorOrange           Color = "orange"
	ColorYellow           Color = "yellow"
	ColorGreen            Color = "green"
	ColorBlue             Color = "blue"
	ColorPurple           Color = "purple"
	ColorPink             Color = "pink"
	ColorRed              Color = "red"
	ColorGrayBackground   Color = "gray_background"
	ColorBrownBackground  Color = "brown_background"
	ColorOrangeBackground Color = "orange_background"
	ColorYellowBackground Color = "yellow_background"
	ColorGreenBackground  Color = "green_background"
	ColorBlueBackground   Color = "blue_background"
	ColorPurpleBackground Color = "purple_background"
	ColorPinkBackground   Color = "pink_background"
	ColorRedBackground    Color = "red_background"
)

var knownColors = map[Color]bool{
	ColorDefault: true, ColorGray: true, ColorBrown: true, ColorOrange: true,
	ColorYellow: true, ColorGreen: true, ColorBlue: true, ColorPurple: true,
	ColorPink: true, ColorRed: true,
	ColorGrayBackground: true, ColorBrownBackground: true, ColorOrangeBackground: true,
	ColorYellowBackground: true, ColorGreenBackground: true, ColorBlueBackground: true,
	ColorPurpleBackground: true, ColorPinkBackground: true, ColorRedBackground: true,
}

// IsBackground reports whether c colors the background rather than the text.
func (c Color) IsBackground() bool {
	return strings.HasSuffix(string(c), "_background")
}

// Annotations are the style flags attached to a rich-text run. The zero
// value is unstyled text in the default color.
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
	Color         Color
}

// Plain reports whether no style flag is set. Color is not a style flag.
func (a Annotations) Plain() bool {
	return !a.Bold && !a.Italic && !a.Strikethrough && !a.Underline && !a.Code
}

func decodeColor(f fields, name string) (Color, error) {
	s, err := f.str(name)
	if err != nil {
		return "", err
	}
	c := Color(s)
	if !knownColors[c] {
		return "", unknownVariant(f.at(name), s)
	}
	return c, nil
}

// optColor decodes a block color, defaulting when the record has none.
func optColor(f fields, name string) (Color, error) {
	if !f.has(name) {
		return ColorDefault, nil
	}
	return decodeColor(f, name)
}

// decodeAnnotations requires every flag: an absent flag is ErrMissingField,
// never false.
func decodeAnnotations(f fields) (Annotations, error) {
	var a Annotations
	var err error
	if a.Bold, err = f.boolean("bold"); err != nil {
		return Annotations{}, err
	}
	if a.Italic, err = f.boolean("italic"); err != nil {
		return Annotations{}, err
	}
	if a.Strikethrough, err = f.boolean("strikethrough"); err != nil {
		return Annotations{}, err
	}
	if a.Underline, err = f.boolean("underline"); err != nil {
		return Annotations{}, err
	}
	if a.Code, err = f.boolean("code"); err != nil {
		return Annotations{}, err
	}
	if a.Color, err = decodeColor(f, "color"); err != nil {
		return Annotations{}, err
	}
	return a, nil
}
