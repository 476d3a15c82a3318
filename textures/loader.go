// Package textures decodes image files into CPU-side textures, including
// slicing a flat cubemap image into its six faces.
package textures

import (
	"fmt"

	"neilpa.me/go-stbi"

	"light-engine/scene"
)

// Load reads an image file from disk and returns an RGBA8 texture.
// PNG, JPEG, BMP, TGA and other stb-supported formats are accepted.
func Load(path string) (*scene.Texture, error) {
	rgba, err := stbi.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", path, err)
	}
	bounds := rgba.Bounds()
	return &scene.Texture{
		Name:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}
