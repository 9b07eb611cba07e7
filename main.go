package main

import (
	"fmt"
	"os"

	"github.com/cakarsubasi/02562-raytracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "build GPU-ready acceleration structures for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "bench",
			Usage: "benchmark acceleration structure construction",
			Description: `
Load one or more wavefront obj models, build BVH and BSP trees over their
triangles and report averaged per-phase construction and flattening times.`,
			ArgsUsage: "model1.obj model2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "runs, r",
					Value: 100,
					Usage: "number of samples per configuration",
				},
				cli.IntSliceFlag{
					Name:  "leaf-size, l",
					Value: &cli.IntSlice{},
					Usage: "BVH leaf sizes to benchmark (default: 1, 2, 4, 8)",
				},
				cli.BoolFlag{
					Name:  "sequential, s",
					Usage: "also benchmark the single-threaded BVH builder",
				},
				cli.IntFlag{
					Name:  "bsp-depth",
					Value: 20,
					Usage: "BSP subdivision depth limit",
				},
				cli.IntFlag{
					Name:  "bsp-leaf",
					Value: 4,
					Usage: "BSP leaf object limit",
				},
				cli.Float64Flag{
					Name:  "scale",
					Value: 1.0,
					Usage: "uniform scale applied to loaded models",
				},
			},
			Action: cmd.Bench,
		},
		{
			Name:      "info",
			Usage:     "display geometry and acceleration structure statistics for a model",
			ArgsUsage: "model1.obj model2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "leaf-size, l",
					Value: 4,
					Usage: "BVH leaf size",
				},
				cli.IntFlag{
					Name:  "bsp-depth",
					Value: 20,
					Usage: "BSP subdivision depth limit",
				},
				cli.IntFlag{
					Name:  "bsp-leaf",
					Value: 4,
					Usage: "BSP leaf object limit",
				},
				cli.Float64Flag{
					Name:  "scale",
					Value: 1.0,
					Usage: "uniform scale applied to loaded models",
				},
			},
			Action: cmd.Info,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
