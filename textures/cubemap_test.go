package textures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-engine/scene"
)

func solidTexture(name string, w, h int, r, g, b byte) *scene.Texture {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return &scene.Texture{Name: name, Width: w, Height: h, Pixels: pix}
}

func TestDetectLayout(t *testing.T) {
	cases := []struct {
		w, h int
		want CubemapLayout
	}{
		{384, 64, LayoutHorizontalLine},
		{64, 384, LayoutVerticalLine},
		{256, 192, LayoutCross4x3},
		{192, 256, LayoutCross3x4},
	}
	for _, tc := range cases {
		got, err := DetectLayout(tc.w, tc.h)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%dx%d", tc.w, tc.h)
	}

	_, err := DetectLayout(100, 100)
	assert.Error(t, err, "square image has no unambiguous layout")
}

func TestExtractCubemapFacesHorizontalLine(t *testing.T) {
	// Six 4x4 cells side by side, each filled with a distinct red value.
	tex := &scene.Texture{Name: "line", Width: 24, Height: 4, Pixels: make([]byte, 24*4*4)}
	for y := 0; y < 4; y++ {
		for x := 0; x < 24; x++ {
			i := (y*24 + x) * 4
			tex.Pixels[i] = byte(x / 4 * 40)
			tex.Pixels[i+3] = 255
		}
	}

	faces, err := ExtractCubemapFaces(tex, LayoutAutoDetect, 0)
	require.NoError(t, err)
	for i, f := range faces {
		require.NotNil(t, f)
		assert.Equal(t, 4, f.Width)
		assert.Equal(t, 4, f.Height)
		assert.Equal(t, byte(i*40), f.Pixels[0], "face %d carries its cell's pixels", i)
	}
}

func TestExtractCubemapFacesResamples(t *testing.T) {
	tex := solidTexture("cross", 256, 192, 10, 20, 30)

	faces, err := ExtractCubemapFaces(tex, LayoutCross4x3, 32)
	require.NoError(t, err)
	for _, f := range faces {
		assert.Equal(t, 32, f.Width)
		assert.Equal(t, byte(10), f.Pixels[0])
	}
}

func TestExtractCubemapFacesErrors(t *testing.T) {
	_, err := ExtractCubemapFaces(nil, LayoutAutoDetect, 0)
	assert.Error(t, err)

	_, err = ExtractCubemapFaces(&scene.Texture{Name: "empty"}, LayoutAutoDetect, 0)
	assert.Error(t, err)

	_, err = ExtractCubemapFaces(solidTexture("odd", 100, 100, 0, 0, 0), LayoutAutoDetect, 0)
	assert.Error(t, err, "undetectable layout propagates")
}
