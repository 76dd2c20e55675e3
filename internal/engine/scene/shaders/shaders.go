// Package shaders holds GLSL sources for the scene renderers.
package shaders

// TubeVertexShader transforms interleaved position/normal vertices.
const TubeVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec3 vWorldPos;

void main() {
    vNormal = aNormal;
    vWorldPos = aPosition;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// TubeFragmentShader shades with one directional light plus ambient. Back
// faces are tinted so winding errors stand out.
const TubeFragmentShader = `#version 410 core
in vec3 vNormal;
in vec3 vWorldPos;

uniform vec3 uLightDir;
uniform vec3 uColor;
uniform vec3 uBackColor;
uniform float uAmbient;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 base = uColor;
    if (!gl_FrontFacing) {
        n = -n;
        base = uBackColor;
    }
    float diffuse = max(dot(n, normalize(-uLightDir)), 0.0);
    FragColor = vec4(base * (uAmbient + (1.0 - uAmbient) * diffuse), 1.0);
}
`

// LineVertexShader draws colored line segments.
const LineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;

out vec3 vColor;

void main() {
    vColor = aColor;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// LineFragmentShader outputs the interpolated vertex color.
const LineFragmentShader = `#version 410 core
in vec3 vColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor, 1.0);
}
`
