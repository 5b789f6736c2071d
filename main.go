package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/lifereel/board"
	"github.com/matt-g-everett/lifereel/config"
	"github.com/matt-g-everett/lifereel/progress"
	"github.com/matt-g-everett/lifereel/render"
)

type options struct {
	Input      string
	Output     string
	ConfigPath string
}

type app struct {
	Options options
	Config  config.Config
	Client  mqtt.Client
}

func newApp(opts options) *app {
	a := new(app)
	a.Options = opts
	a.Config = config.Default()
	return a
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("lifereel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Output, "o", "", "Output video file (required).")
	fs.StringVar(&opts.Output, "output", "", "Output video file (required).")
	fs.StringVar(&opts.ConfigPath, "config", "", "Optional YAML config file.")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lifereel [-config file.yaml] filename -o output.mp4")
		fs.PrintDefaults()
	}

	// Allow flags after the positional argument.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return opts, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if len(positional) != 1 {
		fs.Usage()
		return opts, fmt.Errorf("expected one input file, got %d", len(positional))
	}
	opts.Input = positional[0]

	if opts.Output == "" {
		fs.Usage()
		return opts, errors.New("the -o/--output flag is required")
	}

	return opts, nil
}

func (a *app) readConfig() error {
	if a.Options.ConfigPath == "" {
		return nil
	}

	c, err := config.Load(a.Options.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = c
	return nil
}

func (a *app) connect() error {
	if a.Config.Mqtt.URL == "" {
		return nil
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("lifereel-" + uuid.NewString()).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) { log.Println("Connected") })
	client := mqtt.NewClient(clientOpts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	a.Client = client
	return nil
}

func (a *app) disconnect() {
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
}

func (a *app) reporter() progress.Reporter {
	reporters := progress.Multi{progress.NewLogReporter(nil, a.Config.Progress.Interval)}
	if a.Client != nil {
		reporters = append(reporters, progress.NewMqttReporter(a.Client, a.Config.Mqtt.Topics.Progress))
	}
	return reporters
}

func (a *app) newWriter(size image.Point) (render.FrameWriter, error) {
	return render.NewFFmpegWriter(a.Options.Output, size, render.FFmpegOptions{
		Binary: a.Config.Video.FFmpeg,
		Codec:  a.Config.Video.Codec,
		FPS:    a.Config.Video.FPS,
	})
}

// drawingOptions converts the video and colour settings for the renderer.
func (a *app) drawingOptions() (render.Options, error) {
	var o render.Options
	var err error

	o.Canvas.CellSize = a.Config.Video.CellSize
	o.Canvas.Marker = a.Config.Video.Marker
	o.Canvas.Width = a.Config.Video.Width
	o.Canvas.Height = a.Config.Video.Height
	if o.Canvas.Background, err = colorful.Hex(a.Config.Colours.Background); err != nil {
		return o, fmt.Errorf("background colour: %w", err)
	}
	if o.Foreground, err = colorful.Hex(a.Config.Colours.Foreground); err != nil {
		return o, fmt.Errorf("foreground colour: %w", err)
	}
	if o.Aged, err = colorful.Hex(a.Config.Colours.Aged); err != nil {
		return o, fmt.Errorf("aged colour: %w", err)
	}
	o.AgeFrames = a.Config.Colours.AgeFrames

	return o, nil
}

func (a *app) run() error {
	drawing, err := a.drawingOptions()
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(drawing, a.newWriter, a.reporter())

	parserOpts := board.Options{FlushTrailing: a.Config.Parser.FlushTrailing}
	return board.ReadFile(a.Options.Input, parserOpts, func(src *board.Source) error {
		header := src.Header()
		log.Println(header.Width, header.Height)

		if err := renderer.Render(src); err != nil {
			return err
		}

		if n := src.Dropped(); n > 0 {
			log.Printf("Warning: dropped a final frame of %d cells with no closing %q", n, board.Separator)
		}
		return nil
	})
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	a := newApp(opts)
	if err := a.readConfig(); err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}
	if err := a.connect(); err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	err = a.run()
	a.disconnect()
	if err != nil {
		log.Fatalf("Failed to render %s: %v", opts.Input, err)
	}
}
