package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cakarsubasi/02562-raytracer/log"
	"github.com/cakarsubasi/02562-raytracer/types"
)

var logger = log.New("mesh")

// FromObj loads a triangle mesh from a Wavefront object file or URL. Faces
// with more than three vertices are triangulated as a fan around their
// first vertex. Material library references are ignored; triangles get
// MaterialNone as their material slot.
func FromObj(pathToResource string) (*Mesh, error) {
	res, err := newResource(pathToResource, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newWavefrontReader().Read(res)
}

type wavefrontReader struct {
	// The mesh under assembly.
	mesh *Mesh

	// List of normals in file order; faces bind them to vertices by index.
	normalList []types.Vec3

	// An error stack that provides additional error information when
	// object files include other files.
	errStack []string
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		mesh:       &Mesh{},
		normalList: make([]types.Vec3, 0),
		errStack:   make([]string, 0),
	}
}

// Read parses object geometry from the given resource.
func (r *wavefrontReader) Read(res *resource) (*Mesh, error) {
	logger.Debugf("parsing mesh from %s", res.Path())
	start := time.Now()

	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	logger.Debugf(
		"parsed mesh in %d ms (%d vertices, %d triangles)",
		time.Since(start).Nanoseconds()/1e6, len(r.mesh.Vertices), len(r.mesh.Indices),
	)

	return r.mesh, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object format. Geometry statements (v, vn, f) build the
// mesh; grouping, texture coordinate and material statements are skipped.
func (r *wavefrontReader) parse(res *resource) error {
	var lineNum int = 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 {
			continue
		}

		switch lineTokens[0] {
		case "#":
			continue
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'call'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))

			incRes, err := newResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			defer incRes.Close()

			if err = r.parse(incRes); err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.mesh.Vertices = append(r.mesh.Vertices, v.Vec4(0))
			r.mesh.Normals = append(r.mesh.Normals, types.Vec4{})
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return nil
}

// Parse face definition. Each one of the vertex arguments is comprised of
// 1, 2 or 3 indices separated by a slash character. The following formats
// are supported:
//   - vertexIndex
//   - vertexIndex/uvIndex
//   - vertexIndex//normalIndex
//   - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the
// end of the vertex/normal list. Faces with more than 3 vertices append
// one triangle per fan step around the first vertex.
func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	corners := make([]uint32, len(lineTokens)-1)
	expIndices := 0
	for arg := 0; arg < len(corners); arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.mesh.Vertices))
		if err != nil {
			return fmt.Errorf("could not parse vertex index for face argument %d: %s", arg, err.Error())
		}
		corners[arg] = uint32(vOffset)

		// Bind the normal to the vertex when one is specified
		if len(vTokens) == 3 && vTokens[2] != "" {
			nOffset, err := selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return fmt.Errorf("could not parse normal index for face argument %d: %s", arg, err.Error())
			}
			r.mesh.Normals[vOffset] = r.normalList[nOffset].Vec4(0)
		}
	}

	for i := 2; i < len(corners); i++ {
		r.mesh.Indices = append(r.mesh.Indices, types.Vec4u32{corners[0], corners[i-1], corners[i], MaterialNone})
	}

	return nil
}

// Given an index for a face coord type (vertex, normal) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = int(index - 1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
