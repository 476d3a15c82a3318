package textures

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"light-engine/scene"
)

// CubemapLayout describes how the six faces are arranged in a flat image.
type CubemapLayout int

const (
	LayoutAutoDetect CubemapLayout = iota
	LayoutHorizontalLine
	LayoutVerticalLine
	LayoutCross4x3
	LayoutCross3x4
)

// faceRect gives the cell coordinates (in face-size units) of each cubemap
// face for a layout, in upload order +X, -X, +Y, -Y, +Z, -Z.
var layoutCells = map[CubemapLayout][6][2]int{
	LayoutHorizontalLine: {{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}},
	LayoutVerticalLine:   {{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}},
	// 4x3 cross:        -X  +Z  +X  -Z  on the middle row, +Y above and
	// -Y below the +Z cell.
	LayoutCross4x3: {{2, 1}, {0, 1}, {1, 0}, {1, 2}, {1, 1}, {3, 1}},
	// 3x4 cross: same as 4x3 but the back face sits under -Y.
	LayoutCross3x4: {{2, 1}, {0, 1}, {1, 0}, {1, 2}, {1, 1}, {1, 3}},
}

// DetectLayout guesses the cubemap layout from the image aspect ratio.
func DetectLayout(width, height int) (CubemapLayout, error) {
	switch {
	case width == 6*height:
		return LayoutHorizontalLine, nil
	case height == 6*width:
		return LayoutVerticalLine, nil
	case width*3 == height*4:
		return LayoutCross4x3, nil
	case width*4 == height*3:
		return LayoutCross3x4, nil
	}
	return LayoutAutoDetect, fmt.Errorf("cubemap layout: cannot infer layout from %dx%d image", width, height)
}

// ExtractCubemapFaces slices a flat cubemap image into six square faces in
// upload order +X, -X, +Y, -Y, +Z, -Z. With LayoutAutoDetect the layout is
// inferred from the aspect ratio. Faces are resampled to faceSize when the
// source cells are not already that size; faceSize 0 keeps the source size.
func ExtractCubemapFaces(tex *scene.Texture, layout CubemapLayout, faceSize int) ([6]*scene.Texture, error) {
	var faces [6]*scene.Texture
	if tex == nil || len(tex.Pixels) == 0 {
		return faces, fmt.Errorf("cubemap: empty source texture")
	}

	if layout == LayoutAutoDetect {
		var err error
		layout, err = DetectLayout(tex.Width, tex.Height)
		if err != nil {
			return faces, err
		}
	}

	cellSize := 0
	switch layout {
	case LayoutHorizontalLine:
		cellSize = tex.Height
	case LayoutVerticalLine:
		cellSize = tex.Width
	case LayoutCross4x3:
		cellSize = tex.Width / 4
	case LayoutCross3x4:
		cellSize = tex.Width / 3
	default:
		return faces, fmt.Errorf("cubemap: unknown layout %d", layout)
	}
	if cellSize <= 0 {
		return faces, fmt.Errorf("cubemap: degenerate cell size for %dx%d image", tex.Width, tex.Height)
	}
	if faceSize <= 0 {
		faceSize = cellSize
	}

	src := &image.RGBA{
		Pix:    tex.Pixels,
		Stride: tex.Width * 4,
		Rect:   image.Rect(0, 0, tex.Width, tex.Height),
	}

	cells := layoutCells[layout]
	for i, cell := range cells {
		x0 := cell[0] * cellSize
		y0 := cell[1] * cellSize
		if x0+cellSize > tex.Width || y0+cellSize > tex.Height {
			return faces, fmt.Errorf("cubemap: face %d cell out of bounds", i)
		}

		face := image.NewRGBA(image.Rect(0, 0, faceSize, faceSize))
		cellRect := image.Rect(x0, y0, x0+cellSize, y0+cellSize)
		if faceSize == cellSize {
			xdraw.Copy(face, image.Point{}, src, cellRect, xdraw.Src, nil)
		} else {
			xdraw.ApproxBiLinear.Scale(face, face.Bounds(), src, cellRect, xdraw.Src, nil)
		}

		faces[i] = &scene.Texture{
			Name:   fmt.Sprintf("%s_face%d", tex.Name, i),
			Width:  faceSize,
			Height: faceSize,
			Pixels: face.Pix,
		}
	}
	return faces, nil
}
