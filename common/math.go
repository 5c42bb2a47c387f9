package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m[:16] {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix mapping view-space depth
// into the WebGPU clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// Translation writes a pure translation matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation components
func Translation(out []float32, x, y, z float32) {
	Identity(out)
	out[12], out[13], out[14] = x, y, z
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll). All matrices are column-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation in parent space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
func BuildModelMatrix(out []float32, pos, rot, scale [3]float32) {
	cx, sx := math32.Cos(rot[0]), math32.Sin(rot[0])
	cy, sy := math32.Cos(rot[1]), math32.Sin(rot[1])
	cz, sz := math32.Cos(rot[2]), math32.Sin(rot[2])

	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]
	out[3] = 0

	out[4] = (cy*-sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]
	out[7] = 0

	out[8] = (sy * cx) * scale[2]
	out[9] = (-sx) * scale[2]
	out[10] = (cy * cx) * scale[2]
	out[11] = 0

	out[12] = pos[0]
	out[13] = pos[1]
	out[14] = pos[2]
	out[15] = 1
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the cofactor
// method. If the matrix is singular the output is left unchanged and the
// function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}
	inv := 1.0 / det

	var buf [16]float32
	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv

	copy(out, buf[:])
	return true
}

// NormalMatrix writes the inverse-transpose of the upper 3x3 of a model matrix
// into out as three vec4 columns (the WGSL mat3x3<f32> uniform layout).
// Falls back to the identity when the model matrix is singular.
//
// Parameters:
//   - out: destination slice (must be at least 12 elements)
//   - model: source model matrix (16 elements, column-major)
func NormalMatrix(out []float32, model []float32) {
	var inv [16]float32
	if !Invert4(inv[:], model) {
		Identity(inv[:])
	}
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			// transpose: out[col][row] = inv[row][col]
			out[col*4+row] = inv[row*4+col]
		}
		out[col*4+3] = 0
	}
}

// TransformPoint multiplies a point (w = 1) by a column-major 4x4 matrix.
//
// Parameters:
//   - m: the matrix (16 elements, column-major)
//   - p: the point to transform
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m []float32, p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eye, center, up [3]float32) {
	z := Normalize3(eye[0]-center[0], eye[1]-center[1], eye[2]-center[2])
	if z == ([3]float32{}) {
		z = [3]float32{0, 0, 1}
	}
	x := Normalize3(
		up[1]*z[2]-up[2]*z[1],
		up[2]*z[0]-up[0]*z[2],
		up[0]*z[1]-up[1]*z[0],
	)
	y := [3]float32{
		z[1]*x[2] - z[2]*x[1],
		z[2]*x[0] - z[0]*x[2],
		z[0]*x[1] - z[1]*x[0],
	}

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -(x[0]*eye[0] + x[1]*eye[1] + x[2]*eye[2])
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -(y[0]*eye[0] + y[1]*eye[1] + y[2]*eye[2])
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -(z[0]*eye[0] + z[1]*eye[1] + z[2]*eye[2])
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Normalize3 normalizes a 3-component vector. Returns a zero vector if the
// input has zero length.
//
// Parameters:
//   - x, y, z: vector components
//
// Returns:
//   - [3]float32: the unit-length vector, or zero
func Normalize3(x, y, z float32) [3]float32 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return [3]float32{}
	}
	inv := 1.0 / length
	return [3]float32{x * inv, y * inv, z * inv}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180.0
}
