package lighting

import (
	"light-engine/core"
	"light-engine/gfx"
	"light-engine/scene"
)

// initMaps installs the default map table: PBR channels on with neutral
// constants, parallax and environment channels off until textures arrive.
func (c *Context) initMaps() {
	defaults := [scene.MapCount]mapEntry{
		scene.MapAlbedo:     {enabled: true, color: core.ColorWhite},
		scene.MapMetalness:  {enabled: true, value: 0},
		scene.MapNormal:     {enabled: true},
		scene.MapRoughness:  {enabled: true, value: 0.5},
		scene.MapOcclusion:  {enabled: true, value: 1},
		scene.MapEmission:   {enabled: true, color: core.ColorBlack},
		scene.MapHeight:     {enabled: false, value: 0.05},
		scene.MapCubemap:    {enabled: false},
		scene.MapIrradiance: {enabled: false},
		scene.MapPrefilter:  {enabled: false},
		scene.MapBRDF:       {enabled: false},
	}
	c.maps = defaults

	p := c.lp()
	for ch := 0; ch < scene.MapCount; ch++ {
		u := &c.mapU[ch]
		m := &c.maps[ch]
		p.SetInt(u.enabled, boolInt(m.enabled))
		p.SetInt(u.active, 0)
		p.SetVec4(u.color, colorVec4(m.color))
		p.SetFloat(u.value, m.value)
	}
}

// mapAt validates a channel index. Out of range logs one error and returns
// nil; callers then no-op.
func (c *Context) mapAt(op string, ch scene.MapIndex) *mapEntry {
	if ch < 0 || int(ch) >= scene.MapCount {
		c.log.Errorf("%s: map channel %d out of range [0,%d)", op, ch, scene.MapCount)
		return nil
	}
	return &c.maps[ch]
}

// UseMap gates a map channel context-wide. A disabled channel is never
// sampled, regardless of what textures a material carries.
func (c *Context) UseMap(ch scene.MapIndex, enabled bool) {
	m := c.mapAt("UseMap", ch)
	if m == nil {
		return
	}
	m.enabled = enabled
	c.lp().SetInt(c.mapU[ch].enabled, boolInt(enabled))
}

// MapEnabled reports whether the channel is gated on.
func (c *Context) MapEnabled(ch scene.MapIndex) bool {
	m := c.mapAt("MapEnabled", ch)
	return m != nil && m.enabled
}

// UseDefaultMap forces the table's color/value constants for the channel,
// overriding whatever the drawn material supplies.
func (c *Context) UseDefaultMap(ch scene.MapIndex, force bool) {
	m := c.mapAt("UseDefaultMap", ch)
	if m == nil {
		return
	}
	m.useDefault = force
}

// DefaultMapForced reports whether the channel's table constants override
// material values.
func (c *Context) DefaultMapForced(ch scene.MapIndex) bool {
	m := c.mapAt("DefaultMapForced", ch)
	return m != nil && m.useDefault
}

// SetMapTexture installs a fallback texture for the channel, used when a
// drawn material has none. Zero clears it.
func (c *Context) SetMapTexture(ch scene.MapIndex, id gfx.TextureID) {
	m := c.mapAt("SetMapTexture", ch)
	if m == nil {
		return
	}
	m.texture = id
}

// MapTexture returns the channel's fallback texture, 0 if unset.
func (c *Context) MapTexture(ch scene.MapIndex) gfx.TextureID {
	m := c.mapAt("MapTexture", ch)
	if m == nil {
		return 0
	}
	return m.texture
}

// SetMapColor sets the channel's default color constant.
func (c *Context) SetMapColor(ch scene.MapIndex, col core.Color) {
	m := c.mapAt("SetMapColor", ch)
	if m == nil {
		return
	}
	m.color = col
	c.lp().SetVec4(c.mapU[ch].color, colorVec4(col))
}

// MapColor returns the channel's default color constant.
func (c *Context) MapColor(ch scene.MapIndex) core.Color {
	m := c.mapAt("MapColor", ch)
	if m == nil {
		return core.Color{}
	}
	return m.color
}

// SetMapValue sets the channel's default scalar constant.
func (c *Context) SetMapValue(ch scene.MapIndex, value float32) {
	m := c.mapAt("SetMapValue", ch)
	if m == nil {
		return
	}
	m.value = value
	c.lp().SetFloat(c.mapU[ch].value, value)
}

// MapValue returns the channel's default scalar constant.
func (c *Context) MapValue(ch scene.MapIndex) float32 {
	m := c.mapAt("MapValue", ch)
	if m == nil {
		return 0
	}
	return m.value
}
