package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cakarsubasi/02562-raytracer/accel"
	"github.com/cakarsubasi/02562-raytracer/accel/bsp"
	"github.com/cakarsubasi/02562-raytracer/accel/bvh"
	"github.com/cakarsubasi/02562-raytracer/mesh"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Bench measures construction and flattening times for the acceleration
// structures over one or more models.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing model file argument")
	}

	runs := uint32(ctx.Int("runs"))
	if runs == 0 {
		return errors.New("runs must be positive")
	}

	leafSizes := ctx.IntSlice("leaf-size")
	if len(leafSizes) == 0 {
		leafSizes = []int{1, 2, 4, 8}
	}

	bspDepth := uint32(ctx.Int("bsp-depth"))
	bspLeaf := uint32(ctx.Int("bsp-leaf"))
	scale := float32(ctx.Float64("scale"))
	sequential := ctx.Bool("sequential")

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

		objects := model.Bboxes()
		logger.Noticef("benchmarking %s (%d triangles, %d runs per configuration)", pathToFile, model.TriangleCount(), runs)

		displayBvhStats(pathToFile, objects, leafSizes, sequential, runs)
		displayBspStats(pathToFile, objects, bspDepth, bspLeaf, runs)
	}

	return nil
}

// runBvh builds the tree runs times and averages the per-phase times. The
// builder times its own phases; flattening is measured here around the
// array generation.
func runBvh(objects []accel.AccObj, maxPrimsPerLeaf uint32, parallel bool, runs uint32) bvh.ConstructionTime {
	var total bvh.ConstructionTime
	for run := uint32(0); run < runs; run++ {
		tree := bvh.New(objects, maxPrimsPerLeaf, parallel)

		start := time.Now()
		_ = tree.Flatten()
		_ = tree.Triangles()
		flattening := time.Since(start)

		result := tree.Time
		result.Flattening = flattening
		total.Add(result)
	}
	total.Div(runs)
	return total
}

type bspConstructionTime struct {
	subdivision time.Duration
	flattening  time.Duration
}

func (c bspConstructionTime) total() time.Duration {
	return c.subdivision + c.flattening
}

func runBsp(objects []accel.AccObj, maxDepth, maxObjectsPerLeaf, runs uint32) bspConstructionTime {
	var total bspConstructionTime
	for run := uint32(0); run < runs; run++ {
		start := time.Now()
		tree := bsp.New(objects, maxDepth, maxObjectsPerLeaf)
		subdivision := time.Since(start)

		start = time.Now()
		_, _ = tree.Arrays()
		_ = tree.PrimitiveIDs()
		flattening := time.Since(start)

		total.subdivision += subdivision
		total.flattening += flattening
	}
	total.subdivision /= time.Duration(runs)
	total.flattening /= time.Duration(runs)
	return total
}

func displayBvhStats(pathToFile string, objects []accel.AccObj, leafSizes []int, sequential bool, runs uint32) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Leaf size", "Mode", "Morton", "Radix sort", "Treelet init", "Treelet build", "Upper tree", "Flatten", "Total"})

	modes := []bool{true}
	if sequential {
		modes = append(modes, false)
	}

	for _, leafSize := range leafSizes {
		for _, parallel := range modes {
			mode := "parallel"
			if !parallel {
				mode = "serial"
			}

			stats := runBvh(objects, uint32(leafSize), parallel, runs)
			table.Append([]string{
				fmt.Sprintf("%d", leafSize),
				mode,
				fmt.Sprintf("%s", stats.MortonCodes),
				fmt.Sprintf("%s", stats.RadixSort),
				fmt.Sprintf("%s", stats.TreeletInit),
				fmt.Sprintf("%s", stats.TreeletBuild),
				fmt.Sprintf("%s", stats.UpperTree),
				fmt.Sprintf("%s", stats.Flattening),
				fmt.Sprintf("%s", stats.Total()),
			})
		}
	}

	table.Render()
	logger.Noticef("BVH construction times for %s\n%s", pathToFile, buf.String())
}

func displayBspStats(pathToFile string, objects []accel.AccObj, maxDepth, maxObjectsPerLeaf, runs uint32) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Depth limit", "Leaf limit", "Subdivision", "Flatten", "Total"})

	stats := runBsp(objects, maxDepth, maxObjectsPerLeaf, runs)
	table.Append([]string{
		fmt.Sprintf("%d", maxDepth),
		fmt.Sprintf("%d", maxObjectsPerLeaf),
		fmt.Sprintf("%s", stats.subdivision),
		fmt.Sprintf("%s", stats.flattening),
		fmt.Sprintf("%s", stats.total()),
	})

	table.Render()
	logger.Noticef("BSP construction times for %s\n%s", pathToFile, buf.String())
}
