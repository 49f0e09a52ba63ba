package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
	"unicode"

	"lms_backend/internal/util"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const certificateHeading = "Certificate of Completion"

// ErrMissingGlyphs 没有任何已加载字体能完整显示该文本，需要配置 certificate.font_path
var ErrMissingGlyphs = errors.New("no certificate font covers the text")

// CertificateData 渲染证书需要的全部字段
type CertificateData struct {
	Number      string
	Recipient   string
	CourseTitle string
	Issuer      string
	IssuedAt    time.Time
}

// CertificateRenderer 把证书渲染成可下载的文件
type CertificateRenderer interface {
	Render(data CertificateData) ([]byte, error)
	Extension() string
	ContentType() string
}

// NewCertificateRenderer fontPath 为可选的 TrueType 字体（如中文字体），优先于内嵌的 Go 字体
func NewCertificateRenderer(format, fontPath string) (CertificateRenderer, error) {
	fonts, err := LoadCertificateFonts(fontPath)
	if err != nil {
		return nil, err
	}
	switch format {
	case "pdf", "":
		return PDFRenderer{Fonts: fonts}, nil
	case "png":
		return PNGRenderer{Fonts: fonts}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported certificate format %q", util.ErrInvalidInput, format)
	}
}

type fontFamily struct {
	name    string
	regular []byte
	bold    []byte
	ttf     *truetype.Font
	ttfBold *truetype.Font
}

// covers 空白和控制字符不需要字形
func (f *fontFamily) covers(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		if f.ttf.Index(r) == 0 {
			return false
		}
	}
	return true
}

// CertificateFonts 按顺序挑选第一个能显示整行文本的字体
type CertificateFonts struct {
	families []*fontFamily
}

func newFontFamily(name string, regular, bold []byte) (*fontFamily, error) {
	ttf, err := truetype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	ttfBold, err := truetype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold font %s: %w", name, err)
	}
	return &fontFamily{name: name, regular: regular, bold: bold, ttf: ttf, ttfBold: ttfBold}, nil
}

var goFamily = sync.OnceValues(func() (*fontFamily, error) {
	return newFontFamily("go", goregular.TTF, gobold.TTF)
})

// LoadCertificateFonts 配置字体只有一个字重，粗体复用同一文件
func LoadCertificateFonts(path string) (*CertificateFonts, error) {
	fonts := &CertificateFonts{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read certificate font: %w", err)
		}
		custom, err := newFontFamily("custom", data, data)
		if err != nil {
			return nil, err
		}
		fonts.families = append(fonts.families, custom)
	}

	builtin, err := goFamily()
	if err != nil {
		return nil, err
	}
	fonts.families = append(fonts.families, builtin)
	return fonts, nil
}

func (c *CertificateFonts) pick(text string) (*fontFamily, error) {
	for _, f := range c.families {
		if f.covers(text) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMissingGlyphs, text)
}

func fontsOrDefault(c *CertificateFonts) (*CertificateFonts, error) {
	if c != nil {
		return c, nil
	}
	return LoadCertificateFonts("")
}

type certificateLine struct {
	bold bool
	size float64
	text string
}

// certificateBody 标题之后的各行，两种格式共用
func certificateBody(data CertificateData) ([]certificateLine, []certificateLine) {
	body := []certificateLine{
		{false, 16, "This certifies that"},
		{true, 26, data.Recipient},
		{false, 16, "has successfully completed the course"},
		{true, 22, data.CourseTitle},
	}
	footer := []certificateLine{
		{false, 12, "Issued on " + data.IssuedAt.Format("January 2, 2006")},
		{false, 12, "Certificate No. " + data.Number},
	}
	if data.Issuer != "" {
		footer = append(footer, certificateLine{false, 12, data.Issuer})
	}
	return body, footer
}

// PDFRenderer A4 横向单页 PDF，字体以 UTF-8 子集嵌入
type PDFRenderer struct {
	Fonts *CertificateFonts
}

func (PDFRenderer) Extension() string   { return ".pdf" }
func (PDFRenderer) ContentType() string { return util.MimePDF }

func (r PDFRenderer) Render(data CertificateData) ([]byte, error) {
	fonts, err := fontsOrDefault(r.Fonts)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(certificateHeading+" "+data.Number, true)
	pdf.SetAuthor(data.Issuer, true)
	pdf.SetAutoPageBreak(false, 0)

	registered := map[string]bool{}
	setFont := func(l certificateLine) error {
		f, err := fonts.pick(l.text)
		if err != nil {
			return err
		}
		if !registered[f.name] {
			pdf.AddUTF8FontFromBytes(f.name, "", f.regular)
			pdf.AddUTF8FontFromBytes(f.name, "B", f.bold)
			registered[f.name] = true
		}
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont(f.name, style, l.size)
		return nil
	}
	write := func(l certificateLine, height float64) error {
		if err := setFont(l); err != nil {
			return err
		}
		pdf.CellFormat(0, height, l.text, "", 1, "C", false, 0, "")
		return nil
	}

	pdf.AddPage()
	w, h := pdf.GetPageSize()
	pdf.SetDrawColor(40, 70, 120)
	pdf.SetLineWidth(1.5)
	pdf.Rect(10, 10, w-20, h-20, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(14, 14, w-28, h-28, "D")

	pdf.SetTextColor(40, 70, 120)
	pdf.SetY(38)
	if err := write(certificateLine{true, 34, certificateHeading}, 18); err != nil {
		return nil, err
	}

	body, footer := certificateBody(data)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(6)
	for _, l := range body {
		if err := write(l, l.size*0.62); err != nil {
			return nil, err
		}
	}
	pdf.Ln(14)
	for _, l := range footer {
		if err := write(l, 7); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	pngWidth  = 1600
	pngHeight = 1131
	// PDF 字号(pt) 到 PNG 像素的放大倍数
	pngScale = 2.4
)

// PNGRenderer 与 PDF 共用字体选择，不依赖系统字体目录
type PNGRenderer struct {
	Fonts *CertificateFonts
}

func (PNGRenderer) Extension() string   { return ".png" }
func (PNGRenderer) ContentType() string { return util.MimePNG }

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (r PNGRenderer) Render(data CertificateData) ([]byte, error) {
	fonts, err := fontsOrDefault(r.Fonts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(pngWidth, pngHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB255(40, 70, 120)
	dc.SetLineWidth(14)
	dc.DrawRectangle(36, 36, pngWidth-72, pngHeight-72)
	dc.Stroke()
	dc.SetLineWidth(3)
	dc.DrawRectangle(62, 62, pngWidth-124, pngHeight-124)
	dc.Stroke()

	cx := float64(pngWidth) / 2
	draw := func(l certificateLine, y float64) error {
		f, err := fonts.pick(l.text)
		if err != nil {
			return err
		}
		ttf := f.ttf
		if l.bold {
			ttf = f.ttfBold
		}
		dc.SetFontFace(face(ttf, l.size*pngScale))
		dc.DrawStringAnchored(l.text, cx, y, 0.5, 0.5)
		return nil
	}

	if err := draw(certificateLine{true, 34, certificateHeading}, 230); err != nil {
		return nil, err
	}

	body, footer := certificateBody(data)
	dc.SetRGB255(60, 60, 60)
	for i, l := range body {
		if err := draw(l, 370+float64(i)*95); err != nil {
			return nil, err
		}
	}
	for i, l := range footer {
		if err := draw(l, 820+float64(i)*50); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
