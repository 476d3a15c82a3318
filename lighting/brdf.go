package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
)

// CPU mirror of the GPU shading model. Keeps the math testable without a
// GL context and gives tooling a reference evaluation path.

func schlickFresnel(u float32) float32 {
	m := 1 - u
	m2 := m * m
	return m2 * m2 * m
}

func diffuseBurley(ndl, ndv, ldh, roughness float32) float32 {
	fd90 := 0.5 + 2*roughness*ldh*ldh
	lightScatter := 1 + (fd90-1)*schlickFresnel(ndl)
	viewScatter := 1 + (fd90-1)*schlickFresnel(ndv)
	return lightScatter * viewScatter / math32.Pi
}

func distributionGGX(ndh, alpha float32) float32 {
	a2 := alpha * alpha
	d := ndh*ndh*(a2-1) + 1
	return a2 / (math32.Pi * d * d)
}

func visibilitySmith(ndl, ndv, alpha float32) float32 {
	a2 := alpha * alpha
	ggxL := ndv * math32.Sqrt(ndl*ndl*(1-a2)+a2)
	ggxV := ndl * math32.Sqrt(ndv*ndv*(1-a2)+a2)
	denom := ggxL + ggxV
	if denom < 1e-5 {
		denom = 1e-5
	}
	return 0.5 / denom
}

func computeF0(albedo mgl32.Vec3, metalness, specular float32) mgl32.Vec3 {
	dielectric := 0.16 * specular * specular
	return mgl32.Vec3{
		dielectric + (albedo.X()-dielectric)*metalness,
		dielectric + (albedo.Y()-dielectric)*metalness,
		dielectric + (albedo.Z()-dielectric)*metalness,
	}
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// spotFactor is the cone falloff for a spot light: smoothstep between the
// outer and inner cutoff cosines of the angle to the light axis.
func spotFactor(l *light, toLight mgl32.Vec3) float32 {
	theta := toLight.Mul(-1).Dot(l.direction)
	return smoothstep(l.outerCos, l.innerCos, theta)
}

// attenuationFactor is the distance falloff 1/(kc + kl*d + kq*d²).
func attenuationFactor(l *light, dist float32) float32 {
	return 1 / (l.constant + l.linear*dist + l.quadratic*dist*dist)
}

// shadowFactor2D is the single-tap center of the shader's 2D shadow test:
// the fragment reprojected through the light's stored view-projection, its
// depth compared against the map with the N·L-scaled bias. depth samples
// the map at normalized UV. Returns 0 in shadow, 1 lit.
func (c *Context) shadowFactor2D(l *light, fragPos mgl32.Vec3, ndl float32, depth func(u, v float32) float32) float32 {
	p := l.vp.Mul4x1(fragPos.Vec4(1))
	if p.W() == 0 {
		return 1
	}
	proj := p.Vec3().Mul(1 / p.W())
	proj = proj.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
	if proj.Z() > 1 {
		return 1
	}
	bias := c.effectiveBias(l) * math32.Max(1-ndl, 0.05)
	if proj.Z()-bias > depth(proj.X(), proj.Y()) {
		return 0
	}
	return 1
}

// shadowFactorCube mirrors the cubemap test: world-space distance to the
// light against the stored distance, which the depth pass wrote normalized
// by the far plane. depth samples the cubemap along a direction.
func (c *Context) shadowFactorCube(l *light, fragPos mgl32.Vec3, depth func(dir mgl32.Vec3) float32) float32 {
	toFrag := fragPos.Sub(l.position)
	closest := depth(toFrag) * c.shadowFar
	if toFrag.Len()-c.effectiveBias(l) > closest {
		return 0
	}
	return 1
}

// Surface is one shading point for the CPU reference path.
type Surface struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Albedo    core.Color
	Metalness float32
	Roughness float32
	Occlusion float32
}

// ShadeSurface evaluates the context's lights at a surface point on the
// CPU, mirroring the GPU path minus shadows, IBL and parallax. The view
// position, ambient color and every enabled light contribute exactly as
// they do in the shader.
func (c *Context) ShadeSurface(s Surface) core.Color {
	n := s.Normal.Normalize()
	v := c.viewPos.Sub(s.Position)
	if v.LenSqr() == 0 {
		v = n
	} else {
		v = v.Normalize()
	}
	ndv := n.Dot(v)
	if ndv < 1e-4 {
		ndv = 1e-4
	}

	albedo := s.Albedo.Vec3()
	roughness := s.Roughness
	if roughness < 0.04 {
		roughness = 0.04
	} else if roughness > 1 {
		roughness = 1
	}
	alpha := roughness * roughness

	total := c.ambient.Vec3().Mul(s.Occlusion)
	total = mgl32.Vec3{
		total.X() * albedo.X(),
		total.Y() * albedo.Y(),
		total.Z() * albedo.Z(),
	}

	for i := range c.lights {
		l := &c.lights[i]
		if !l.enabled {
			continue
		}

		var dir mgl32.Vec3
		attenuation := float32(1)
		intensity := float32(1)
		if l.typ == Directional {
			dir = l.direction.Mul(-1).Normalize()
		} else {
			toLight := l.position.Sub(s.Position)
			dist := toLight.Len()
			if dist < 1e-5 {
				continue
			}
			dir = toLight.Mul(1 / dist)
			attenuation = attenuationFactor(l, dist)
			if l.typ == Spot {
				intensity = spotFactor(l, dir)
			}
		}

		ndl := n.Dot(dir)
		if ndl <= 0 || attenuation*intensity <= 0 {
			continue
		}

		h := v.Add(dir).Normalize()
		ndh := math32.Max(n.Dot(h), 0)
		ldh := math32.Max(dir.Dot(h), 0)

		scale := l.energy * attenuation * intensity * ndl
		radiance := l.color.Vec3().Mul(scale)

		diff := diffuseBurley(ndl, ndv, ldh, roughness) * (1 - s.Metalness)
		f0 := computeF0(albedo, s.Metalness, l.specular)
		fres := schlickFresnel(ldh)
		spec := distributionGGX(ndh, alpha) * visibilitySmith(ndl, ndv, alpha)

		for axis := 0; axis < 3; axis++ {
			f := f0[axis] + (1-f0[axis])*fres
			total[axis] += albedo[axis]*diff*radiance[axis] + spec*f*radiance[axis]
		}
	}

	return core.Color{R: total.X(), G: total.Y(), B: total.Z(), A: s.Albedo.A}
}
