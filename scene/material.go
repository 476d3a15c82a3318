package scene

import "light-engine/core"

// MapIndex names one of the material channels a material (and the context's
// map table) can carry. The order is load-bearing: lit draws bind channel
// textures to texture units in exactly this order.
type MapIndex int

const (
	MapAlbedo MapIndex = iota
	MapMetalness
	MapNormal
	MapRoughness
	MapOcclusion
	MapEmission
	MapHeight
	MapCubemap
	MapIrradiance
	MapPrefilter
	MapBRDF
	mapReserved

	// MapCount is the number of channel slots (11 named + 1 reserved).
	MapCount = int(mapReserved) + 1
)

func (m MapIndex) String() string {
	switch m {
	case MapAlbedo:
		return "albedo"
	case MapMetalness:
		return "metalness"
	case MapNormal:
		return "normal"
	case MapRoughness:
		return "roughness"
	case MapOcclusion:
		return "occlusion"
	case MapEmission:
		return "emission"
	case MapHeight:
		return "height"
	case MapCubemap:
		return "cubemap"
	case MapIrradiance:
		return "irradiance"
	case MapPrefilter:
		return "prefilter"
	case MapBRDF:
		return "brdf"
	}
	return "reserved"
}

// MaterialMap is one channel of a material: an optional texture plus the
// constant color/scalar used when no texture is bound for the channel.
type MaterialMap struct {
	Texture *Texture
	Color   core.Color
	Value   float32
}

// Material describes surface appearance through the 12 material channels.
// Channels without a texture fall back to their Color/Value constants.
type Material struct {
	Name string
	Maps [MapCount]MaterialMap

	// LightAffect scales how strongly baked occlusion fades direct
	// diffuse/specular light (0 = ambient only, 1 = full fade).
	LightAffect float32
}

// DefaultMaterial returns a plain white dielectric material of medium roughness.
func DefaultMaterial() *Material {
	m := &Material{Name: "Default"}
	m.Maps[MapAlbedo].Color = core.ColorWhite
	m.Maps[MapMetalness].Value = 0
	m.Maps[MapRoughness].Value = 0.5
	m.Maps[MapOcclusion].Value = 1
	m.Maps[MapEmission].Color = core.ColorBlack
	m.Maps[MapHeight].Value = 0.05
	return m
}

// NewPBRMaterial creates a material with the given albedo, metalness, and roughness.
func NewPBRMaterial(name string, albedo core.Color, metalness, roughness float32) *Material {
	m := DefaultMaterial()
	m.Name = name
	m.Maps[MapAlbedo].Color = albedo
	m.Maps[MapMetalness].Value = metalness
	m.Maps[MapRoughness].Value = roughness
	return m
}
