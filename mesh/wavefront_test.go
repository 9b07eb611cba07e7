package mesh

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cakarsubasi/02562-raytracer/types"
)

func TestVec3Parser(t *testing.T) {
	expError := "unsupported syntax for 'v'; expected 3 arguments; got 0"
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in       string
		listLen  int
		out      int
		expError string
	}
	specs := []spec{
		{"2", 1, -1, expError},
		{"-2", 1, -1, expError},
		{"1", 10, 0, ""}, // indices are 1-based
		{"-1", 10, 9, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestParseQuadGeometry(t *testing.T) {
	payload := `
# a unit quad in the xy plane
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

	res := mockResource(payload)
	mesh, err := newWavefrontReader().Read(res)
	if err != nil {
		t.Fatal(err)
	}

	expVertices := []types.Vec4{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{1, 1, 0, 0},
		{0, 1, 0, 0},
	}
	if !reflect.DeepEqual(mesh.Vertices, expVertices) {
		t.Fatalf("expected vertices %v; got %v", expVertices, mesh.Vertices)
	}

	expNormal := types.Vec4{0, 0, 1, 0}
	for i, n := range mesh.Normals {
		if n != expNormal {
			t.Fatalf("expected vertex %d to carry normal %v; got %v", i, expNormal, n)
		}
	}

	expIndices := []types.Vec4u32{
		{0, 1, 2, MaterialNone},
		{0, 2, 3, MaterialNone},
	}
	if !reflect.DeepEqual(mesh.Indices, expIndices) {
		t.Fatalf("expected indices %v; got %v", expIndices, mesh.Indices)
	}

	if mesh.TriangleCount() != 2 || mesh.VertexCount() != 4 {
		t.Fatalf("expected 2 triangles over 4 vertices; got %d and %d", mesh.TriangleCount(), mesh.VertexCount())
	}
}

func TestFaceFormats(t *testing.T) {
	prefix := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v -1 1 0
vn 0 1 0
`

	type spec struct {
		face       string
		expIndices []types.Vec4u32
	}
	specs := []spec{
		{"f 1 2 3", []types.Vec4u32{{0, 1, 2, MaterialNone}}},
		{"f 1/9 2/9 3/9", []types.Vec4u32{{0, 1, 2, MaterialNone}}}, // uv indices are skipped
		{"f 1//1 2//1 3//1", []types.Vec4u32{{0, 1, 2, MaterialNone}}},
		{"f -5 -4 -3", []types.Vec4u32{{0, 1, 2, MaterialNone}}},
		{"f 1 2 3 4 5", []types.Vec4u32{
			{0, 1, 2, MaterialNone},
			{0, 2, 3, MaterialNone},
			{0, 3, 4, MaterialNone},
		}},
	}

	for idx, s := range specs {
		mesh, err := newWavefrontReader().Read(mockResource(prefix + s.face))
		if err != nil {
			t.Fatalf("[spec %d] %v", idx, err)
		}
		if !reflect.DeepEqual(mesh.Indices, s.expIndices) {
			t.Fatalf("[spec %d] expected indices %v; got %v", idx, s.expIndices, mesh.Indices)
		}
	}
}

func TestParseErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{
			"v 0 0",
			"[embedded: 1] error: unsupported syntax for 'v'; expected 3 arguments; got 2",
		},
		{
			"vn 0 0",
			"[embedded: 1] error: unsupported syntax for 'vn'; expected 3 arguments; got 2",
		},
		{
			"v a 0 0",
			`[embedded: 1] error: strconv.ParseFloat: parsing "a": invalid syntax`,
		},
		{
			"call one two",
			"[embedded: 1] error: unsupported syntax for 'call'; expected 1 argument; got 2",
		},
		{
			"f 1 2",
			"[embedded: 1] error: unsupported syntax for 'f'; expected at least 3 arguments; got 2",
		},
		{
			"v 0 0 0\nf 1 2/2 3",
			"[embedded: 2] error: expected each face argument to contain 1 indices; arg 1 contains 2 indices",
		},
		{
			"v 0 0 0\nf / 2 3",
			"[embedded: 2] error: face argument 0 does not include a vertex index",
		},
		{
			"v 0 0 0\nf 1 2 3",
			"[embedded: 2] error: could not parse vertex index for face argument 1: index out of bounds",
		},
		{
			"v 0 0 0\nf 1 x 1",
			`[embedded: 2] error: could not parse vertex index for face argument 1: strconv.ParseInt: parsing "x": invalid syntax`,
		},
		{
			"v 0 0 0\nvn 0 1 0\nf 1//2 1//2 1//2",
			"[embedded: 3] error: could not parse normal index for face argument 0: index out of bounds",
		},
	}

	for idx, s := range specs {
		_, err := newWavefrontReader().Read(mockResource(s.payload))
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected to get error: %s; got %v", idx, s.expError, err)
		}
	}
}

func TestIncludeStackTrace(t *testing.T) {
	payload := `
v 0 0 0
call missing.obj
`

	_, err := newWavefrontReader().Read(mockResource(payload))
	if err == nil {
		t.Fatal("expected to get an error")
	}
	if !strings.HasPrefix(err.Error(), "[embedded: 3] error:") {
		t.Fatalf("expected the error to point at the call site; got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "referenced from embedded:3 [call]") {
		t.Fatalf("expected the error to carry the include trace; got %v", err)
	}
}

func TestCallIncludesRelativeResource(t *testing.T) {
	dir := t.TempDir()
	partFile := filepath.Join(dir, "part.obj")
	if err := os.WriteFile(partFile, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mainFile := filepath.Join(dir, "main.obj")
	if err := os.WriteFile(mainFile, []byte("call part.obj\nv 0 0 1\nv 1 0 1\nv 0 1 1\nf -3 -2 -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := FromObj(mainFile)
	if err != nil {
		t.Fatal(err)
	}

	if mesh.VertexCount() != 6 {
		t.Fatalf("expected 6 vertices; got %d", mesh.VertexCount())
	}
	expIndices := []types.Vec4u32{
		{0, 1, 2, MaterialNone},
		{3, 4, 5, MaterialNone},
	}
	if !reflect.DeepEqual(mesh.Indices, expIndices) {
		t.Fatalf("expected indices %v; got %v", expIndices, mesh.Indices)
	}
}

func TestFromObjMissingFile(t *testing.T) {
	_, err := FromObj(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Fatal("expected to get an error")
	}
}
