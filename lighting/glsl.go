package lighting

import (
	"fmt"
	"strconv"
	"strings"
)

// lightCountToken is expanded to the context's light capacity when the
// lighting program is compiled. Custom lighting shader sources must carry
// the token; expansion fails otherwise.
const lightCountToken = "@NUM_LIGHTS@"

// expandLightCount substitutes the light-capacity token into a shader source.
func expandLightCount(src string, count int) (string, error) {
	if !strings.Contains(src, lightCountToken) {
		return "", fmt.Errorf("shader source missing %s token", lightCountToken)
	}
	return strings.ReplaceAll(src, lightCountToken, strconv.Itoa(count)), nil
}

// ── Lighting program ──────────────────────────────────────────────────────────

// Vertex shader: world-space position/normal/tangent frame to the fragment
// stage; clip position from the per-eye MVP indexed by gl_InstanceID so a
// stereo draw renders both eyes in one instanced call.
const lightingVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;
layout(location = 4) in vec3 inTangent;
layout(location = 5) in vec3 inBitangent;

uniform mat4 mvp[2];
uniform mat4 matModel;
uniform mat4 matNormal;

out vec3 fragPosition;
out vec2 fragUV;
out vec4 fragColor;
out vec3 fragNormal;
out mat3 fragTBN;

void main() {
    vec4 world   = matModel * vec4(inPosition, 1.0);
    fragPosition = world.xyz;
    fragUV       = inUV;
    fragColor    = inColor;

    vec3 N = normalize(mat3(matNormal) * inNormal);
    vec3 T = normalize(mat3(matNormal) * inTangent);
    vec3 B = normalize(mat3(matNormal) * inBitangent);
    fragNormal = N;
    fragTBN    = mat3(T, B, N);

    gl_Position = mvp[gl_InstanceID] * vec4(inPosition, 1.0);
}
`

// Fragment shader: physically-based forward lighting over the light array.
// Burley diffuse with Schlick-Fresnel roughness weighting, GGX distribution
// with a Smith-correlated visibility term, per-light shadow maps (3x3 PCF
// for 2D, distance compare for cubemaps), irradiance/environment IBL and
// optional parallax mapping.
const lightingFragSrc = `
#version 410 core

#define NUM_LIGHTS   ` + lightCountToken + `
#define NUM_MAPS     12

#define MAP_ALBEDO     0
#define MAP_METALNESS  1
#define MAP_NORMAL     2
#define MAP_ROUGHNESS  3
#define MAP_OCCLUSION  4
#define MAP_EMISSION   5
#define MAP_HEIGHT     6
#define MAP_CUBEMAP    7
#define MAP_IRRADIANCE 8

#define LIGHT_DIRECTIONAL 0
#define LIGHT_OMNI        1
#define LIGHT_SPOT        2

in vec3 fragPosition;
in vec2 fragUV;
in vec4 fragColor;
in vec3 fragNormal;
in mat3 fragTBN;

out vec4 outColor;

struct Light {
    int   enabled;
    int   type;
    vec3  position;
    vec3  direction;
    vec3  color;
    float energy;
    float specular;
    float size;
    float innerCutOff;
    float outerCutOff;
    float constant;
    float linear;
    float quadratic;
    int   shadow;
    float shadowMapTxlSz;
    float depthBias;
    mat4  vp;
    sampler2D   shadowMap;
    samplerCube shadowCubemap;
};

struct Map {
    int   enabled;  // context-wide channel gate
    int   active;   // texture bound for this draw
    vec4  color;
    float value;
};

uniform Light lights[NUM_LIGHTS];
uniform Map   maps[NUM_MAPS];

uniform sampler2D   mapAlbedo;
uniform sampler2D   mapMetalness;
uniform sampler2D   mapNormal;
uniform sampler2D   mapRoughness;
uniform sampler2D   mapOcclusion;
uniform sampler2D   mapEmission;
uniform sampler2D   mapHeight;
uniform samplerCube mapCubemap;
uniform samplerCube mapIrradiance;

uniform vec3  viewPos;
uniform vec3  ambientColor;
uniform float farPlane;
uniform float lightAffect;
uniform int   parallaxMinLayers;
uniform int   parallaxMaxLayers;

const float PI = 3.14159265358979323846;

bool mapOn(int i) {
    return maps[i].enabled == 1 && maps[i].active == 1;
}

// ── BRDF terms ───────────────────────────────────────────────────────────────

float SchlickFresnel(float u) {
    float m = 1.0 - u;
    float m2 = m * m;
    return m2 * m2 * m;
}

// Burley (Disney) diffuse, normalized by PI, with Schlick-Fresnel
// roughness weighting at both grazing angles.
float DiffuseBurley(float NdL, float NdV, float LdH, float roughness) {
    float FD90 = 0.5 + 2.0 * roughness * LdH * LdH;
    float lightScatter = mix(1.0, FD90, SchlickFresnel(NdL));
    float viewScatter  = mix(1.0, FD90, SchlickFresnel(NdV));
    return lightScatter * viewScatter * (1.0 / PI);
}

float DistributionGGX(float NdH, float alpha) {
    float a2 = alpha * alpha;
    float d  = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

// Smith height-correlated visibility (combined G / (4 NdL NdV)).
float VisibilitySmith(float NdL, float NdV, float alpha) {
    float ggxL = NdV * sqrt(NdL * NdL * (1.0 - alpha * alpha) + alpha * alpha);
    float ggxV = NdL * sqrt(NdV * NdV * (1.0 - alpha * alpha) + alpha * alpha);
    return 0.5 / max(ggxL + ggxV, 1e-5);
}

// F0 from metalness and the scalar specular level: dielectric reflectance
// 0.16*spec^2 blended toward albedo by metalness.
vec3 ComputeF0(vec3 albedo, float metalness, float specular) {
    float dielectric = 0.16 * specular * specular;
    return mix(vec3(dielectric), albedo, metalness);
}

// ── Shadows ──────────────────────────────────────────────────────────────────

float Shadow2D(int i, float NdL) {
    vec4 p = lights[i].vp * vec4(fragPosition, 1.0);
    vec3 proj = p.xyz / p.w;
    proj = proj * 0.5 + 0.5;
    if (proj.z > 1.0) return 1.0;

    float bias = lights[i].depthBias * max(1.0 - NdL, 0.05);
    float ts = lights[i].shadowMapTxlSz;

    float shadow = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            float closest = texture(lights[i].shadowMap, proj.xy + vec2(float(x), float(y)) * ts).r;
            shadow += (proj.z - bias > closest) ? 0.0 : 1.0;
        }
    }
    return shadow / 9.0;
}

float ShadowCube(int i) {
    vec3 toFrag = fragPosition - lights[i].position;
    float closest = texture(lights[i].shadowCubemap, toFrag).r * farPlane;
    return (length(toFrag) - lights[i].depthBias > closest) ? 0.0 : 1.0;
}

// ── Parallax ─────────────────────────────────────────────────────────────────

vec2 ParallaxUV(vec2 uv, vec3 viewTS) {
    float scale = maps[MAP_HEIGHT].value;
    if (parallaxMinLayers > 0 && parallaxMaxLayers > parallaxMinLayers) {
        // Deep parallax: march layers, more of them at grazing angles.
        float n = mix(float(parallaxMaxLayers), float(parallaxMinLayers),
                      abs(viewTS.z));
        float layerDepth = 1.0 / n;
        vec2 delta = viewTS.xy * scale / (viewTS.z * n);

        vec2 cur = uv;
        float depth = 0.0;
        float h = 1.0 - texture(mapHeight, cur).r;
        while (depth < h) {
            cur -= delta;
            h = 1.0 - texture(mapHeight, cur).r;
            depth += layerDepth;
        }
        return cur;
    }
    // Simple offset parallax.
    float h = 1.0 - texture(mapHeight, uv).r;
    return uv - viewTS.xy / viewTS.z * (h * scale);
}

// ── Main ─────────────────────────────────────────────────────────────────────

void main() {
    vec3 V = normalize(viewPos - fragPosition);

    vec2 uv = fragUV;
    if (mapOn(MAP_HEIGHT)) {
        uv = ParallaxUV(uv, normalize(transpose(fragTBN) * V));
        if (uv.x < 0.0 || uv.x > 1.0 || uv.y < 0.0 || uv.y > 1.0) discard;
    }

    vec3 N = normalize(fragNormal);
    if (mapOn(MAP_NORMAL)) {
        N = normalize(fragTBN * (texture(mapNormal, uv).rgb * 2.0 - 1.0));
    }

    vec4 albedoFull = fragColor * maps[MAP_ALBEDO].color;
    if (mapOn(MAP_ALBEDO)) {
        albedoFull *= texture(mapAlbedo, uv);
    }
    vec3 albedo = albedoFull.rgb;

    float metalness = maps[MAP_METALNESS].value;
    if (mapOn(MAP_METALNESS)) metalness *= texture(mapMetalness, uv).b;

    float roughness = maps[MAP_ROUGHNESS].value;
    if (mapOn(MAP_ROUGHNESS)) roughness *= texture(mapRoughness, uv).g;
    roughness = clamp(roughness, 0.04, 1.0);
    float alpha = roughness * roughness;

    float occlusion = maps[MAP_OCCLUSION].value;
    if (mapOn(MAP_OCCLUSION)) occlusion *= texture(mapOcclusion, uv).r;

    float NdV = max(dot(N, V), 1e-4);

    vec3 diffuseTotal  = vec3(0.0);
    vec3 specularTotal = vec3(0.0);

    for (int i = 0; i < NUM_LIGHTS; i++) {
        if (lights[i].enabled == 0) continue;

        vec3 L;
        float attenuation = 1.0;
        float intensity = 1.0;

        if (lights[i].type == LIGHT_DIRECTIONAL) {
            L = normalize(-lights[i].direction);
        } else {
            vec3 toLight = lights[i].position - fragPosition;
            float dist = length(toLight);
            L = toLight / max(dist, 1e-5);
            attenuation = 1.0 / (lights[i].constant +
                                 lights[i].linear * dist +
                                 lights[i].quadratic * dist * dist);
            if (lights[i].type == LIGHT_SPOT) {
                float theta = dot(-L, normalize(lights[i].direction));
                intensity = smoothstep(lights[i].outerCutOff, lights[i].innerCutOff, theta);
            }
        }

        float NdL = max(dot(N, L), 0.0);
        if (NdL <= 0.0 || attenuation * intensity <= 0.0) continue;

        vec3 H = normalize(V + L);
        float NdH = max(dot(N, H), 0.0);
        float LdH = max(dot(L, H), 0.0);

        float shadow = 1.0;
        if (lights[i].shadow == 1) {
            shadow = (lights[i].type == LIGHT_OMNI) ? ShadowCube(i) : Shadow2D(i, NdL);
        }

        vec3 radiance = lights[i].color * lights[i].energy * attenuation * intensity * shadow * NdL;

        float diffBRDF = DiffuseBurley(NdL, NdV, LdH, roughness);
        diffuseTotal += albedo * diffBRDF * radiance * (1.0 - metalness);

        vec3  F0 = ComputeF0(albedo, metalness, lights[i].specular);
        vec3  F  = F0 + (vec3(1.0) - F0) * SchlickFresnel(LdH);
        float D  = DistributionGGX(NdH, alpha);
        float Vt = VisibilitySmith(NdL, NdV, alpha);
        specularTotal += D * Vt * F * radiance;
    }

    // Baked occlusion fades direct light by the material's light-affect scalar.
    float direct = mix(1.0, occlusion, lightAffect);
    diffuseTotal  *= direct;
    specularTotal *= direct;

    // Specular IBL: blend raw specular toward the environment reflection,
    // sharper surfaces reflect more.
    if (mapOn(MAP_CUBEMAP)) {
        vec3 R = reflect(-V, N);
        vec3 reflection = texture(mapCubemap, R).rgb;
        specularTotal = mix(specularTotal, reflection, 1.0 - roughness);
    }

    // Ambient: irradiance cubemap when bound, flat constant otherwise.
    vec3 ambient;
    if (mapOn(MAP_IRRADIANCE)) {
        vec3 F0 = ComputeF0(albedo, metalness, 0.5);
        vec3 F  = F0 + (vec3(1.0) - F0) * SchlickFresnel(NdV);
        vec3 kD = (vec3(1.0) - F) * (1.0 - metalness);
        ambient = texture(mapIrradiance, N).rgb * albedo * kD;
    } else {
        ambient = ambientColor * albedo;
    }
    ambient *= occlusion;

    vec3 emission = maps[MAP_EMISSION].color.rgb;
    if (mapOn(MAP_EMISSION)) {
        emission *= texture(mapEmission, uv).rgb;
    }

    vec3 color = ambient + diffuseTotal + specularTotal + emission;
    outColor = vec4(color, albedoFull.a);
}
`

// ── Depth programs ────────────────────────────────────────────────────────────

// depth-only vertex shader for 2D shadow map passes
const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 mvp[2];
uniform mat4 matModel;
void main() {
    gl_Position = mvp[0] * vec4(inPosition, 1.0);
}
`

// depth-only fragment shader (OpenGL writes depth implicitly)
const depthFragSrc = `
#version 410 core
void main() {}
`

// cubemap depth vertex shader: world position is needed per fragment to
// store distance-to-light instead of projected depth.
const depthCubeVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 mvp[2];
uniform mat4 matModel;
out vec3 fragPosition;
void main() {
    vec4 world   = matModel * vec4(inPosition, 1.0);
    fragPosition = world.xyz;
    gl_Position  = mvp[0] * vec4(inPosition, 1.0);
}
`

// cubemap depth fragment shader: writes distance(frag, light)/far so the
// lighting pass can compare world-space distances directly.
const depthCubeFragSrc = `
#version 410 core
in vec3 fragPosition;
uniform vec3  lightPos;
uniform float farPlane;
void main() {
    gl_FragDepth = length(fragPosition - lightPos) / farPlane;
}
`

// ── Skybox / IBL programs ─────────────────────────────────────────────────────

// Shared cube vertex shader for the equirectangular and irradiance bakes.
const cubeCaptureVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 vp;
out vec3 fragDir;
void main() {
    fragDir = inPosition;
    gl_Position = vp * vec4(inPosition, 1.0);
}
`

// Equirectangular-to-cubemap: sample the lat/long panorama in the direction
// of each cube fragment.
const equirectFragSrc = `
#version 410 core
in vec3 fragDir;
out vec4 outColor;

uniform sampler2D equirectMap;

const vec2 invAtan = vec2(0.1591, 0.3183);

vec2 SampleSphericalMap(vec3 v) {
    vec2 uv = vec2(atan(v.z, v.x), asin(v.y));
    uv *= invAtan;
    uv += 0.5;
    return uv;
}

void main() {
    vec3 color = texture(equirectMap, SampleSphericalMap(normalize(fragDir))).rgb;
    outColor = vec4(color, 1.0);
}
`

// Irradiance convolution: hemisphere integral of the environment around the
// fragment's direction, producing the diffuse IBL cubemap.
const irradianceFragSrc = `
#version 410 core
in vec3 fragDir;
out vec4 outColor;

uniform samplerCube environmentMap;

const float PI = 3.14159265358979323846;

void main() {
    vec3 N = normalize(fragDir);
    vec3 up    = vec3(0.0, 1.0, 0.0);
    vec3 right = normalize(cross(up, N));
    up = normalize(cross(N, right));

    vec3 irradiance = vec3(0.0);
    float samples = 0.0;
    for (float phi = 0.0; phi < 2.0 * PI; phi += 0.025) {
        for (float theta = 0.0; theta < 0.5 * PI; theta += 0.1) {
            vec3 tangentSample = vec3(sin(theta) * cos(phi), sin(theta) * sin(phi), cos(theta));
            vec3 dir = tangentSample.x * right + tangentSample.y * up + tangentSample.z * N;
            irradiance += texture(environmentMap, dir).rgb * cos(theta) * sin(theta);
            samples += 1.0;
        }
    }
    irradiance = PI * irradiance / samples;
    outColor = vec4(irradiance, 1.0);
}
`

// Skybox backdrop: translation-stripped view, depth forced to the far plane
// via the xyww trick.
const skyboxVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 skyVP;
out vec3 fragDir;
void main() {
    fragDir = inPosition;
    vec4 pos = skyVP * vec4(inPosition, 1.0);
    // xyww: after perspective divide z/w = 1.0 (far plane)
    gl_Position = pos.xyww;
}
`

const skyboxFragSrc = `
#version 410 core
in vec3 fragDir;
out vec4 outColor;
uniform samplerCube environmentMap;
void main() {
    outColor = vec4(texture(environmentMap, normalize(fragDir)).rgb, 1.0);
}
`
