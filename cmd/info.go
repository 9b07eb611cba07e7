package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/cakarsubasi/02562-raytracer/accel/bsp"
	"github.com/cakarsubasi/02562-raytracer/accel/bvh"
	"github.com/cakarsubasi/02562-raytracer/mesh"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Info loads models and displays statistics about their geometry and the
// acceleration structures built over them.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing model file argument")
	}

	leafSize := uint32(ctx.Int("leaf-size"))
	bspDepth := uint32(ctx.Int("bsp-depth"))
	bspLeaf := uint32(ctx.Int("bsp-leaf"))
	scale := float32(ctx.Float64("scale"))

	for _, pathToFile := range ctx.Args() {
		if !strings.HasSuffix(pathToFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", pathToFile)
			continue
		}

		model, err := mesh.FromObj(pathToFile)
		if err != nil {
			return err
		}
		if scale != 1.0 {
			model.Scale(scale)
		}

		displayModelStats(pathToFile, model, leafSize, bspDepth, bspLeaf)
	}

	return nil
}

func displayModelStats(pathToFile string, model *mesh.Mesh, leafSize, bspDepth, bspLeaf uint32) {
	objects := model.Bboxes()

	bvhTree := bvh.New(objects, leafSize, true)
	bvhNodes := bvhTree.Flatten()
	bvhTriangles := bvhTree.Triangles()

	bspTree := bsp.New(objects, bspDepth, bspLeaf)
	intermediate := bsp.NewIntermediate(bspTree)

	bound := model.Bbox()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", model.VertexCount())})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", model.TriangleCount())})
	table.Append([]string{"Bound min", fmt.Sprintf("(%.3f, %.3f, %.3f)", bound.Min[0], bound.Min[1], bound.Min[2])})
	table.Append([]string{"Bound max", fmt.Sprintf("(%.3f, %.3f, %.3f)", bound.Max[0], bound.Max[1], bound.Max[2])})
	table.Append([]string{"BVH nodes", fmt.Sprintf("%d (leaf size %d)", len(bvhNodes), leafSize)})
	table.Append([]string{"BVH primitive refs", fmt.Sprintf("%d", len(bvhTriangles))})
	table.Append([]string{"BVH upload size", fmt.Sprintf("%d bytes", len(bvhNodes)*32+len(bvhTriangles)*4)})
	table.Append([]string{"BSP node slots", fmt.Sprintf("%d (depth limit %d)", len(intermediate.Nodes), bspDepth)})
	table.Append([]string{"BSP primitive refs", fmt.Sprintf("%d (%.2fx duplication)", len(intermediate.IDs), float64(len(intermediate.IDs))/float64(len(objects)))})
	table.Append([]string{"BSP upload size", fmt.Sprintf("%d bytes", 32+len(intermediate.Nodes)*16+len(intermediate.Planes)*4+len(intermediate.IDs)*4)})

	table.Render()
	logger.Noticef("model statistics for %s\n%s", pathToFile, buf.String())
}
