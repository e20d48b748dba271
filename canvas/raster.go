package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"meme-studio/core"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// ThumbnailScale is the raster multiplier used for save-time thumbnails.
const ThumbnailScale = 0.25

var (
	fontsOnce   sync.Once
	parsedFonts map[string]*truetype.Font
)

// Each supported family maps to an embedded Go font so rendering never
// depends on host-installed fonts.
func loadFonts() {
	ttfs := map[string][]byte{
		"Arial":   goregular.TTF,
		"Impact":  gobold.TTF,
		"Courier": gomono.TTF,
		"Georgia": goitalic.TTF,
	}
	parsedFonts = make(map[string]*truetype.Font, len(ttfs))
	for name, data := range ttfs {
		f, err := truetype.Parse(data)
		if err != nil {
			logrus.WithError(err).WithField("font", name).Error("Failed to parse embedded font")
			continue
		}
		parsedFonts[name] = f
	}
}

func fontFace(family string, size float64) font.Face {
	fontsOnce.Do(loadFonts)
	f, ok := parsedFonts[family]
	if !ok {
		f = parsedFonts[core.FontFamilies[0]]
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// A handful of named CSS colors appear in persisted documents alongside hex
// values.
var namedColors = map[string]string{
	"white":       "#ffffff",
	"black":       "#000000",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"gray":        "#808080",
	"grey":        "#808080",
	"transparent": "#ffffff00",
}

func setColor(dc *gg.Context, c string) {
	if !strings.HasPrefix(c, "#") {
		if hex, ok := namedColors[strings.ToLower(c)]; ok {
			c = hex
		} else {
			c = "#000000"
		}
	}
	dc.SetHexColor(c)
}

// Render rasterizes the surface at the given scale multiplier. Scale applies
// only to raster output; persisted geometry always stays in editing-canvas
// pixels.
func Render(s *Surface, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}
	cw, ch := s.Size()
	w := int(cw*scale + 0.5)
	h := int(ch*scale + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cannot render %gx%g canvas", cw, ch)
	}

	dc := gg.NewContext(w, h)
	setColor(dc, s.BackgroundColor())
	dc.Clear()

	if bg, _ := s.BackgroundImage(); bg != nil {
		dc.DrawImage(scaleImage(bg, w, h), 0, 0)
	}

	for _, el := range s.Elements() {
		drawElement(dc, el, scale)
	}
	return dc.Image(), nil
}

// RenderPNG rasterizes the surface and encodes it as PNG.
func RenderPNG(s *Surface, scale float64) ([]byte, error) {
	img, err := Render(s, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode canvas raster: %w", err)
	}
	return buf.Bytes(), nil
}

func drawElement(dc *gg.Context, el core.Element, scale float64) {
	b := el.Bounds()
	x, y := b.X*scale, b.Y*scale
	w, h := b.W*scale, b.H*scale

	switch v := el.(type) {
	case *core.RectElement:
		dc.DrawRectangle(x, y, w, h)
		setColor(dc, v.Fill)
		dc.FillPreserve()
		setColor(dc, v.StrokeColor)
		dc.SetLineWidth(v.StrokeWidth * scale)
		dc.Stroke()

	case *core.CircleElement:
		r := v.Radius * scale
		dc.DrawCircle(x+r, y+r, r)
		setColor(dc, v.Fill)
		dc.FillPreserve()
		setColor(dc, v.StrokeColor)
		dc.SetLineWidth(v.StrokeWidth * scale)
		dc.Stroke()

	case *core.TextElement:
		dc.SetFontFace(fontFace(v.FontFamily, v.FontSize*scale))
		setColor(dc, v.Color)
		dc.DrawStringWrapped(v.Text, x, y, 0, 0, w, 1.2, gg.AlignLeft)

	case *core.ImageElement:
		if v.Bitmap == nil {
			drawPlaceholder(dc, x, y, w, h, "image")
			return
		}
		dc.DrawImage(scaleImage(v.Bitmap, int(w+0.5), int(h+0.5)), int(x+0.5), int(y+0.5))

	case *core.VideoElement:
		if v.Poster != nil {
			dc.DrawImage(scaleImage(v.Poster, int(w+0.5), int(h+0.5)), int(x+0.5), int(y+0.5))
			return
		}
		label := v.OriginalFileName
		if label == "" {
			label = "video"
		}
		drawPlaceholder(dc, x, y, w, h, fmt.Sprintf("%s (%.0fs)", label, v.Duration))

	default:
		logrus.WithFields(logrus.Fields{
			"element_id": el.ID(),
			"type":       el.Type(),
		}).Warn("Cannot rasterize unknown element type")
	}
}

// drawPlaceholder stands in for media that has no decoded pixels available.
func drawPlaceholder(dc *gg.Context, x, y, w, h float64, label string) {
	dc.DrawRectangle(x, y, w, h)
	dc.SetHexColor("#d9d9d9")
	dc.FillPreserve()
	dc.SetHexColor("#888888")
	dc.SetLineWidth(1)
	dc.Stroke()
	if w > 40 && h > 20 {
		dc.SetFontFace(fontFace(core.FontFamilies[0], 12))
		dc.SetHexColor("#444444")
		dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.5)
	}
}

func scaleImage(src image.Image, w, h int) image.Image {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
