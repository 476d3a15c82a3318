package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"light-engine/core"
)

// LoadGLTF opens a .glb or .gltf file and returns a Model with its meshes
// and 12-channel materials populated from the glTF PBR metallic-roughness
// definitions. Textures still need a GPU upload before the first draw.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	model := &Model{Name: filepath.Base(path)}

	// ── 1. Textures ───────────────────────────────────────────────────────────
	texCache := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var tex *Texture
		if img.BufferView != nil {
			// Binary GLB: image data lives in a buffer view
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				fmt.Printf("gltf: image %d bufferview: %v\n", *gt.Source, err)
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				fmt.Printf("gltf: image %d decode: %v\n", *gt.Source, err)
				continue
			}
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			// External file referenced by relative URI
			tex, err = loadTextureFile(filepath.Join(dir, img.URI))
			if err != nil {
				fmt.Printf("gltf: image %d (%s): %v\n", *gt.Source, img.URI, err)
				continue
			}
		}
		texCache[i] = tex
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	model.Materials = make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Maps[MapAlbedo].Color = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			if pbr.BaseColorTexture != nil {
				mat.Maps[MapAlbedo].Texture = cachedTex(texCache, pbr.BaseColorTexture.Index)
			}
			mat.Maps[MapMetalness].Value = float32(pbr.MetallicFactorOrDefault())
			mat.Maps[MapRoughness].Value = float32(pbr.RoughnessFactorOrDefault())
			if pbr.MetallicRoughnessTexture != nil {
				// glTF packs roughness in G and metallic in B of one image;
				// both channels sample the same texture.
				mr := cachedTex(texCache, pbr.MetallicRoughnessTexture.Index)
				mat.Maps[MapMetalness].Texture = mr
				mat.Maps[MapRoughness].Texture = mr
			}
		}

		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.Maps[MapNormal].Texture = cachedTex(texCache, *gm.NormalTexture.Index)
		}
		if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
			mat.Maps[MapOcclusion].Texture = cachedTex(texCache, *gm.OcclusionTexture.Index)
		}
		if gm.EmissiveTexture != nil {
			mat.Maps[MapEmission].Texture = cachedTex(texCache, gm.EmissiveTexture.Index)
		}
		ef := gm.EmissiveFactor
		mat.Maps[MapEmission].Color = core.Color{
			R: float32(ef[0]), G: float32(ef[1]), B: float32(ef[2]), A: 1,
		}
		model.Materials[i] = mat
	}

	// ── 3. Mesh primitives ────────────────────────────────────────────────────
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, *prim)
			if err != nil {
				fmt.Printf("gltf: mesh %d prim %d: %v\n", mi, pi, err)
				continue
			}
			ComputeTangents(m)
			matIdx := -1
			if prim.Material != nil && *prim.Material < len(model.Materials) {
				matIdx = *prim.Material
			}
			model.Meshes = append(model.Meshes, m)
			model.MeshMaterial = append(model.MeshMaterial, matIdx)
		}
	}

	return model, nil
}

func cachedTex(cache []*Texture, idx int) *Texture {
	if idx >= 0 && idx < len(cache) {
		return cache[idx]
	}
	return nil
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return CreateMeshFromData(name, verts, indices), nil
}

// decodeImageBytes decodes an in-memory PNG/JPEG into an RGBA8 texture.
func decodeImageBytes(name string, raw []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return textureFromImage(name, img), nil
}

func loadTextureFile(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return textureFromImage(path, img), nil
}

func textureFromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}
