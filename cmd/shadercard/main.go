package main

import (
	"errors"
	"log/slog"
	"os"
	"runtime"

	"github.com/urfave/cli"
	"github.com/valerio/go-shadercard/shadercard"
	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/backend/sdl2"
	"github.com/valerio/go-shadercard/shadercard/backend/terminal"
	"github.com/valerio/go-shadercard/shadercard/backend/window"
	"github.com/valerio/go-shadercard/shadercard/config"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/gpu/opengl"
	"github.com/valerio/go-shadercard/shadercard/shader"
)

func init() {
	// GL contexts and GLFW/SDL windows must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	app := cli.NewApp()
	app.Name = "shadercard"
	app.Description = "Render a GLSL fragment shader into print-ready card layers"
	app.Usage = "shadercard [options] <fragment shader>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "preview, p",
			Usage: "Show the shader in a window instead of exporting",
		},
		cli.Float64Flag{
			Name:  "printsize, s",
			Usage: "Printed edge length in millimeters",
			Value: config.DefaultPrintSize,
		},
		cli.IntFlag{
			Name:  "imagesize, i",
			Usage: "Exported image width and height in pixels",
			Value: config.DefaultResolution,
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML settings file",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "Directory receiving background.jpg and foreground.jpg",
			Value: ".",
		},
		cli.IntFlag{
			Name:  "proof",
			Usage: "Also write PNG proofs of this size (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Preview backend: glfw, sdl2 (needs -tags sdl2) or terminal",
			Value: config.BackendGLFW,
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "Disable the export progress bar",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running shadercard", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no fragment shader path provided")
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	level, err := settings.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	fragment, err := shader.Load(c.Args().First())
	if err != nil {
		return err
	}

	b := newBackend(settings, level)
	newDevice := func() (gpu.Device, error) {
		return opengl.New()
	}

	session, err := shadercard.Open(b, settings, fragment, newDevice)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("Failed to release resources", "error", err)
		}
	}()

	return session.Run()
}

// loadSettings layers flags set on the command line over the config file,
// which is layered over the defaults.
func loadSettings(c *cli.Context) (config.Settings, error) {
	settings := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	if c.IsSet("preview") {
		settings.Preview = c.Bool("preview")
	}
	if c.IsSet("printsize") {
		settings.PrintSize = c.Float64("printsize")
	}
	if c.IsSet("imagesize") {
		settings.Resolution = c.Int("imagesize")
	}
	if c.IsSet("output") {
		settings.OutputDir = c.String("output")
	}
	if c.IsSet("proof") {
		settings.ProofSize = c.Int("proof")
	}
	if c.IsSet("backend") {
		settings.Backend = c.String("backend")
	}
	if c.IsSet("quiet") {
		settings.Progress = !c.Bool("quiet")
	}
	if c.IsSet("log-level") {
		settings.LogLevel = c.String("log-level")
	}

	return settings, settings.Validate()
}

// newBackend picks the context provider. Export always uses a hidden GLFW
// context.
func newBackend(settings config.Settings, level slog.Level) backend.Backend {
	if !settings.Preview {
		return window.New()
	}
	switch settings.Backend {
	case config.BackendSDL2:
		return sdl2.New()
	case config.BackendTerminal:
		return terminal.New(window.New(), terminal.WithLogLevel(level))
	default:
		return window.New()
	}
}
