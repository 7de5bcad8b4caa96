package main

import (
	"fmt"
	"image"
	"io"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/graybmp"
	"github.com/bodgit/graybmp/bmp"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const (
	defaultDB     = "graybmp.db"
	defaultConfig = "graybmp.yaml"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func settings(c *cli.Context) (*config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") || cfg.DB == "" {
		cfg.DB = c.String("db")
	}
	if c.IsSet("workers") || cfg.Workers == 0 {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("levels") || cfg.Levels == 0 {
		cfg.Levels = c.Int("levels")
	}
	return cfg, nil
}

func convert(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	return graybmp.Save(out, bmp.FromImage(m))
}

func info(w io.Writer, file string) error {
	c, err := graybmp.LoadConfig(file)
	if err != nil {
		return err
	}

	padding := bmp.Padding(int(c.Info.BitsPerPixel), c.Width())
	fmt.Fprintf(w, "Filename:\t%s\n", file)
	fmt.Fprintf(w, "Filesize:\t%d bytes\n", c.File.FileSize)
	fmt.Fprintf(w, "Width:\t\t%d px\n", c.Width())
	fmt.Fprintf(w, "Height:\t\t%d px\n", c.Height())
	fmt.Fprintf(w, "BitCount:\t%d bits\n", c.Info.BitsPerPixel)
	fmt.Fprintf(w, "PixelOffset:\t%d bytes\n", c.File.PixelOffset)
	fmt.Fprintf(w, "ImageSize:\t%d bytes\n", c.Info.ImageSize)
	fmt.Fprintf(w, "Stride:\t\t%d bytes\n", bmp.Stride(int(c.Info.BitsPerPixel), c.Width()))
	fmt.Fprintf(w, "Padding:\t%d bytes\n", padding)
	fmt.Fprintf(w, "Resolution:\t%dx%d px/m\n", c.Info.XPixelsPerMetre, c.Info.YPixelsPerMetre)

	return nil
}

func transform(in, out string, f func(*bmp.Raster) (*bmp.Raster, error)) error {
	m, err := graybmp.Load(in)
	if err != nil {
		return err
	}
	defer graybmp.Release(m)

	dup, err := f(m)
	if err != nil {
		return err
	}
	defer graybmp.Release(dup)

	return graybmp.Save(out, dup)
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "graybmp"
	app.Usage = "Grayscale 24-bit BMP utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"GRAYBMP_CONFIG"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GRAYBMP_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print the headers of a bitmap",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := info(c.App.Writer, c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to a grayscale bitmap",
			Description: "Reads any BMP, GIF, JPEG or PNG image and writes it as a grayscale 24-bit bitmap",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := convert(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "adjust",
			Usage:       "Apply an expression to every pixel",
			Description: "The expression can use v, row, col, height and width, or name an expression from the configuration file",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "expr",
					Aliases:  []string{"e"},
					Usage:    "expression or expression name",
					Required: true,
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				expression := cfg.expression(c.String("expr"))
				if err := transform(c.Args().Get(0), c.Args().Get(1), func(m *bmp.Raster) (*bmp.Raster, error) {
					return graybmp.Map(m, expression)
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "posterize",
			Usage:     "Reduce the number of gray tones",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "levels",
					Aliases: []string{"l"},
					Value:   defaultLevels,
					Usage:   "maximum number of tones",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := transform(c.Args().Get(0), c.Args().Get(1), func(m *bmp.Raster) (*bmp.Raster, error) {
					return graybmp.Posterize(m, cfg.Levels)
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "index",
			Usage:       "Scan filesystem and catalog bitmaps",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: graybmp.DefaultWorkers,
					Usage: "number of files to decode concurrently",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := graybmp.NewCatalog(cfg.DB)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				g := graybmp.New(db, newLogger(c))

				if err := g.Index(c.Args().First(), cfg.Workers); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "lookup",
			Usage:     "Print the catalog entry for a SHA-1",
			ArgsUsage: "SHA1",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := graybmp.NewCatalog(cfg.DB)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				e, err := db.Lookup(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if e == nil {
					return cli.NewExitError("no match", 1)
				}

				fmt.Fprintf(c.App.Writer, "%s %dx%d mean=%.4f min=%.4f max=%.4f\n", e.SHA1, e.Width, e.Height, e.Mean, e.Min, e.Max)
				for _, p := range e.Paths {
					fmt.Fprintln(c.App.Writer, p)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
