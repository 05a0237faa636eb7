package drawq

import "image/color"

// Color is a packed 24-bit RGB colour in 0xRRGGBB layout. The backend is
// responsible for alpha handling and any byte-order conversion its
// output format requires.
type Color uint32

// RGB packs three 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// NRGBA converts the packed colour to an opaque image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Named colours.
const (
	Black   Color = 0x000000
	White   Color = 0xFFFFFF
	Red     Color = 0xFF0000
	Green   Color = 0x00FF00
	Blue    Color = 0x0000FF
	Yellow  Color = 0xFFFF00
	Aqua    Color = 0x00FFFF
	Fuchsia Color = 0xFF00FF
	Gray    Color = 0x808080
	Maroon  Color = 0x800000
	Navy    Color = 0x000080
	Olive   Color = 0x808000
	Purple  Color = 0x800080
	Silver  Color = 0xC0C0C0
	Teal    Color = 0x008080
	Orange  Color = 0xFFA500
	Pink    Color = 0xFFC0CB
	Skyblue Color = 0x87CEEB

	Grey    = Gray
	Cyan    = Aqua
	Magenta = Fuchsia
	Lime    = Green
)
