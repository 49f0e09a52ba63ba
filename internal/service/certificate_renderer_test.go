package service

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

var sampleCertificate = CertificateData{
	Number:      "CERT-0123456789AB",
	Recipient:   "José Núñez",
	CourseTitle: "Go Basics",
	Issuer:      "Test Academy",
	IssuedAt:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
}

func TestPDFRenderer(t *testing.T) {
	r, err := NewCertificateRenderer("pdf", "")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", r.Extension())

	out, err := r.Render(sampleCertificate)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// UTF-8 字体以 TrueType 子集嵌入，而不是 cp1252 核心字体
	assert.Contains(t, string(out), "/FontFile2")
	assert.NotContains(t, string(out), "/Helvetica")
}

func TestPNGRenderer(t *testing.T) {
	r, err := NewCertificateRenderer("png", "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", r.ContentType())

	out, err := r.Render(sampleCertificate)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, pngWidth, img.Bounds().Dx())
	assert.Equal(t, pngHeight, img.Bounds().Dy())
}

func TestUnknownCertificateFormat(t *testing.T) {
	_, err := NewCertificateRenderer("docx", "")
	assert.Error(t, err)
}

func TestCertificateFontsPick(t *testing.T) {
	fonts, err := LoadCertificateFonts("")
	require.NoError(t, err)

	for _, title := range []string{"Go Basics", "Основы Go", "Εισαγωγή στη Go", "José Núñez"} {
		f, err := fonts.pick(title)
		require.NoError(t, err, title)
		assert.Equal(t, "go", f.name)
	}

	_, err = fonts.pick("Go 语言入门")
	assert.ErrorIs(t, err, ErrMissingGlyphs)
}

func TestNonLatinTitles(t *testing.T) {
	cyrillic := sampleCertificate
	cyrillic.CourseTitle = "Основы Go"
	cyrillic.Recipient = "Иван Петров"

	chinese := sampleCertificate
	chinese.CourseTitle = "Go 语言入门"

	for _, format := range []string{"pdf", "png"} {
		t.Run(format, func(t *testing.T) {
			r, err := NewCertificateRenderer(format, "")
			require.NoError(t, err)

			out, err := r.Render(cyrillic)
			require.NoError(t, err)
			assert.NotEmpty(t, out)

			// 没有 CJK 字体时拒绝渲染，不能输出缺字的证书
			_, err = r.Render(chinese)
			assert.ErrorIs(t, err, ErrMissingGlyphs)
		})
	}
}

func TestConfiguredFontTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))

	fonts, err := LoadCertificateFonts(path)
	require.NoError(t, err)
	f, err := fonts.pick("Go Basics")
	require.NoError(t, err)
	assert.Equal(t, "custom", f.name)

	for _, format := range []string{"pdf", "png"} {
		r, err := NewCertificateRenderer(format, path)
		require.NoError(t, err)
		_, err = r.Render(sampleCertificate)
		assert.NoError(t, err, format)
	}

	_, err = LoadCertificateFonts(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0o644))
	_, err = LoadCertificateFonts(garbage)
	assert.Error(t, err)
}
