// Package pixel implements the RGB framebuffer shared by all smart screen revisions.
//
// A [Framebuffer] stores 3 bytes per pixel in row-major order and is compatible with Go's
// [image.Image] / [draw.Image] interfaces, so any image can be drawn onto it before it is
// handed to a screen. The 5-6-5 [CRGB16] color is what revision B panels expect on the wire.
package pixel
