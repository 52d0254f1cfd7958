package pixbuf

// RGB8 is one three-channel, 8-bit-per-sample pixel.
type RGB8 struct{ R, G, B uint8 }

// RGB16 is one three-channel, 16-bit-per-sample pixel.
type RGB16 struct{ R, G, B uint16 }

// CMYK8 is one four-channel, 8-bit-per-sample pixel.
type CMYK8 struct{ C, M, Y, K uint8 }

// RGBA8 is one four-channel, 8-bit-per-sample pixel with an explicit
// alpha/mask channel, adapted to image.Image by RGBAImage. The
// TransparencyMask interpreter does not use it; it writes a
// Buffer[uint8].
type RGBA8 struct{ R, G, B, A uint8 }
