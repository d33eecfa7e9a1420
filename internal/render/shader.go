package render

import rl "github.com/gen2brain/raylib-go/raylib"

// One shader serves textured and untextured parts: raylib binds its 1x1 white texture to
// texture0 when a material has no albedo texture.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(transpose(inverse(matModel))) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = texture(texture0, fragTexCoord) * colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * step(0.0, NdotL);
  finalColor = vec4(ambient.rgb * tint.rgb + diffuse + specular, tint.a);
}
`
)

// lighting holds the fixed light parameters. Only the view position and light direction
// change per frame.
type lighting struct {
	ambient          [4]float32
	color            [3]float32
	intensity        float32
	specularPower    float32
	specularStrength float32
}

var defaultLighting = lighting{
	ambient:          [4]float32{0.22, 0.22, 0.24, 1},
	color:            [3]float32{1, 0.98, 0.95},
	intensity:        0.8,
	specularPower:    32,
	specularStrength: 0.4,
}

type uniforms struct {
	viewPos, lightDir, ambient, color, intensity, specPower, specStrength int32
}

func locate(s rl.Shader) uniforms {
	return uniforms{
		viewPos:      rl.GetShaderLocation(s, "viewPos"),
		lightDir:     rl.GetShaderLocation(s, "lightDir"),
		ambient:      rl.GetShaderLocation(s, "ambient"),
		color:        rl.GetShaderLocation(s, "lightColor"),
		intensity:    rl.GetShaderLocation(s, "lightIntensity"),
		specPower:    rl.GetShaderLocation(s, "specularPower"),
		specStrength: rl.GetShaderLocation(s, "specularStrength"),
	}
}

// apply uploads the frame's uniforms. Values are copied into local arrays first (cgo-safe).
func (u uniforms) apply(s rl.Shader, l lighting, viewPos, lightDir [3]float32) {
	vec3 := func(loc int32, v [3]float32) {
		if loc >= 0 {
			rl.SetShaderValueV(s, loc, v[:], rl.ShaderUniformVec3, 1)
		}
	}
	float := func(loc int32, v float32) {
		if loc >= 0 {
			rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
		}
	}
	vec3(u.viewPos, viewPos)
	vec3(u.lightDir, lightDir)
	vec3(u.color, l.color)
	if u.ambient >= 0 {
		amb := l.ambient
		rl.SetShaderValueV(s, u.ambient, amb[:], rl.ShaderUniformVec4, 1)
	}
	float(u.intensity, l.intensity)
	float(u.specPower, l.specularPower)
	float(u.specStrength, l.specularStrength)
}
