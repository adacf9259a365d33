package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/arbor/cmd/arbor/internal/scene"
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/engine"
	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
	"github.com/go-drift/arbor/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "layout",
		Short: "Lay out a scene and print its geometry",
		Long: `Mount a scene, run one frame against the surface size and print the
resolved rectangle of every render node in root coordinates.

The surface size comes from, in increasing priority: engine.width and
engine.height in the configuration, width and height in the scene file,
and the --width and --height flags.

Formats:
  text   indented geometry tree (default)
  yaml   geometry list as YAML
  json   the whole frame as JSON
  tree   the instance tree (kinds, keys, props) as YAML`,
		Usage: "arbor layout [--width W] [--height H] [--unbounded-height] [--format text|yaml|json|tree] <scene>",
		Run:   runLayout,
	})
}

type layoutOptions struct {
	width, height   float64
	unboundedHeight bool
	format          string
	scenePath       string
}

func parseLayoutArgs(args []string) (*layoutOptions, error) {
	opts := &layoutOptions{format: "text"}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--width", "--height":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			v, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return nil, fmt.Errorf("%s: %q is not a positive number", arg, args[i+1])
			}
			if arg == "--width" {
				opts.width = v
			} else {
				opts.height = v
			}
			i++
		case "--unbounded-height":
			opts.unboundedHeight = true
		case "--format":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--format requires a value")
			}
			opts.format = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--format=") {
				opts.format = strings.TrimPrefix(arg, "--format=")
				continue
			}
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			if opts.scenePath != "" {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.scenePath = arg
		}
	}
	if opts.scenePath == "" {
		return nil, fmt.Errorf("layout requires a scene file")
	}
	switch opts.format {
	case "text", "yaml", "json", "tree":
	default:
		return nil, fmt.Errorf("unknown format %q (use text, yaml, json or tree)", opts.format)
	}
	return opts, nil
}

func runLayout(s *Session, args []string) error {
	opts, err := parseLayoutArgs(args)
	if err != nil {
		return err
	}

	kinds := widgets.New()
	f, root, err := loadScene(kinds.Registry, opts.scenePath)
	if err != nil {
		return err
	}

	size := graphics.Size{Width: s.Config.Engine.Width, Height: s.Config.Engine.Height}
	if f.Width > 0 {
		size.Width = f.Width
	}
	if f.Height > 0 {
		size.Height = f.Height
	}
	if opts.width > 0 {
		size.Width = opts.width
	}
	if opts.height > 0 {
		size.Height = opts.height
	}
	constraints := layout.Tight(size)
	if opts.unboundedHeight {
		constraints.MinHeight = 0
		constraints.MaxHeight = math.Inf(1)
	}

	logger := s.Logger.With().Str("scene", opts.scenePath).Logger()
	eng := engine.New(kinds.Registry, engine.Options{
		Logger:  logger,
		Handler: errors.NewLogHandler(logger, logger.GetLevel() <= zerolog.DebugLevel),
	})
	eng.SetRoot(root)

	frame, err := eng.TickConstraints(constraints)
	if frame == nil {
		if err == nil {
			err = fmt.Errorf("scene produced no render tree")
		}
		return fmt.Errorf("layout failed: %w", err)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("frame produced with errors")
	}
	logger.Info().
		Uint64("frame", frame.ID).
		Int("nodes", len(frame.Nodes)).
		Str("constraints", constraints.String()).
		Msg("laid out")

	switch opts.format {
	case "yaml":
		return writeYAML(stdout, frame.Nodes)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	case "tree":
		return writeYAML(stdout, eng.Tree().Dump())
	default:
		_, err := io.WriteString(stdout, renderGeometry(frame))
		return err
	}
}

// loadScene reads a scene and checks it structurally before it is mounted.
func loadScene(reg *core.Registry, path string) (*scene.File, *core.Node, error) {
	f, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	root, err := f.Build(reg)
	if err != nil {
		return nil, nil, err
	}
	if err := core.Validate(reg, root); err != nil {
		return nil, nil, err
	}
	return f, root, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1F6FEB", Dark: "#58A6FF"})
	rectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#8B949E"})
)

// renderGeometry prints one line per render node, indented by depth, with
// the rectangles aligned in a column.
func renderGeometry(f *engine.Frame) string {
	labels := make([]string, len(f.Nodes))
	widest := 0
	for i, n := range f.Nodes {
		labels[i] = strings.Repeat("  ", n.Depth) + labelStyle.Render(n.Node)
		widest = max(widest, lipgloss.Width(labels[i]))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "frame %d  %s\n", f.ID, f.Size)
	for i, n := range f.Nodes {
		r := n.Rect
		pad := strings.Repeat(" ", widest-lipgloss.Width(labels[i]))
		sb.WriteString(labels[i])
		sb.WriteString(pad)
		sb.WriteString("  ")
		sb.WriteString(rectStyle.Render(fmt.Sprintf("(%g, %g) %s", r.Left, r.Top, r.Size())))
		sb.WriteByte('\n')
	}
	return sb.String()
}
