// Package scene describes a bouncing-ball setup in YAML: the world box, the
// contact threshold, the tuning of every on-hit behavior and the balls.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/physics"
)

//go:embed default.yaml
var defaultScene []byte

// ErrInvalidScene wraps every validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// Kind selects the on-hit behavior of a ball.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindBouncy  Kind = "bouncy"
	KindColor   Kind = "color"
	KindMass    Kind = "mass"
	KindGravity Kind = "gravity"
	KindSpawner Kind = "spawner"
)

// Kinds lists every known ball kind.
var Kinds = []Kind{KindPlain, KindBouncy, KindColor, KindMass, KindGravity, KindSpawner}

type Scene struct {
	World     World     `yaml:"world"`
	Contacts  Contacts  `yaml:"contacts"`
	Behaviors Behaviors `yaml:"behaviors"`
	Balls     []Ball    `yaml:"balls"`
}

type World struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Gravity        float64 `yaml:"gravity"`
	Iterations     uint    `yaml:"iterations"`
	WallElasticity float64 `yaml:"wall_elasticity"`
	Friction       float64 `yaml:"friction"`
}

type Contacts struct {
	Threshold float64 `yaml:"threshold"`
}

type Behaviors struct {
	Bouncy  Bouncy  `yaml:"bouncy"`
	Color   Color   `yaml:"color"`
	Mass    Factor  `yaml:"mass"`
	Gravity Factor  `yaml:"gravity"`
	Spawner Spawner `yaml:"spawner"`
}

type Bouncy struct {
	Restitution float64 `yaml:"restitution"`
	Lift        float64 `yaml:"lift"`
}

// Color holds two colornames entries the color behavior toggles between.
type Color struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type Factor struct {
	Factor float64 `yaml:"factor"`
}

type Spawner struct {
	Limit  int     `yaml:"limit"`
	Offset float64 `yaml:"offset"`
}

type Ball struct {
	Kind       Kind    `yaml:"kind"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	VX         float64 `yaml:"vx"`
	VY         float64 `yaml:"vy"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Elasticity float64 `yaml:"elasticity"`
	Tint       string  `yaml:"tint"`
}

// Defaults returns a scene with every tuning value set and no balls.
func Defaults() Scene {
	cfg := physics.DefaultConfig()
	return Scene{
		World: World{
			Width:          cfg.Width,
			Height:         cfg.Height,
			Gravity:        cfg.Gravity,
			Iterations:     cfg.Iterations,
			WallElasticity: cfg.WallElasticity,
			Friction:       cfg.Friction,
		},
		Contacts: Contacts{Threshold: contact.DefaultThreshold},
		Behaviors: Behaviors{
			Bouncy:  Bouncy{Restitution: 0.9, Lift: 5},
			Color:   Color{From: "white", To: "red"},
			Mass:    Factor{Factor: 2},
			Gravity: Factor{Factor: 1.1},
			Spawner: Spawner{Limit: 8, Offset: 10},
		},
	}
}

// Default returns the embedded demo scene.
func Default() Scene {
	s, err := Parse(defaultScene)
	if err != nil {
		panic("embedded scene: " + err.Error())
	}
	return s
}

// Parse decodes and validates a scene. Omitted fields keep their Defaults.
func Parse(data []byte) (Scene, error) {
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	for i := range s.Balls {
		if s.Balls[i].Kind == "" {
			s.Balls[i].Kind = KindPlain
		}
		if s.Balls[i].Radius == 0 {
			s.Balls[i].Radius = 0.5
		}
		if s.Balls[i].Mass == 0 {
			s.Balls[i].Mass = 1
		}
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

// Validate reports the first inconsistency in the scene.
func (s Scene) Validate() error {
	if s.World.Width <= 0 || s.World.Height <= 0 {
		return invalid("world size %gx%g must be positive", s.World.Width, s.World.Height)
	}
	if s.Contacts.Threshold < 0 {
		return invalid("contact threshold %g is negative", s.Contacts.Threshold)
	}
	if s.Behaviors.Spawner.Limit < 0 {
		return invalid("spawner limit %d is negative", s.Behaviors.Spawner.Limit)
	}
	if s.Behaviors.Mass.Factor <= 0 || s.Behaviors.Gravity.Factor <= 0 {
		return invalid("behavior factors must be positive")
	}
	for _, name := range []string{s.Behaviors.Color.From, s.Behaviors.Color.To} {
		if _, ok := colornames.Map[name]; !ok {
			return invalid("unknown color %q", name)
		}
	}
	for i, b := range s.Balls {
		if !knownKind(b.Kind) {
			return invalid("ball %d: unknown kind %q", i, b.Kind)
		}
		if b.Radius <= 0 || b.Mass <= 0 {
			return invalid("ball %d: radius and mass must be positive", i)
		}
		if b.X-b.Radius < 0 || b.X+b.Radius > s.World.Width || b.Y-b.Radius < 0 || b.Y+b.Radius > s.World.Height {
			return invalid("ball %d at (%g, %g) is outside the world", i, b.X, b.Y)
		}
		if b.Tint != "" {
			if _, ok := colornames.Map[b.Tint]; !ok {
				return invalid("ball %d: unknown tint %q", i, b.Tint)
			}
		}
	}
	return nil
}

func knownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// PhysicsConfig converts the world section for the physics host.
func (s Scene) PhysicsConfig() physics.Config {
	cfg := physics.DefaultConfig()
	cfg.Width = s.World.Width
	cfg.Height = s.World.Height
	cfg.Gravity = s.World.Gravity
	if s.World.Iterations > 0 {
		cfg.Iterations = s.World.Iterations
	}
	cfg.WallElasticity = s.World.WallElasticity
	cfg.Friction = s.World.Friction
	return cfg
}

// Spec converts a ball to a physics body description.
func (b Ball) Spec(friction float64) physics.BallSpec {
	return physics.BallSpec{
		X:          b.X,
		Y:          b.Y,
		VX:         b.VX,
		VY:         b.VY,
		Radius:     b.Radius,
		Mass:       b.Mass,
		Elasticity: b.Elasticity,
		Friction:   friction,
	}
}

// ColorOf resolves a colornames entry, falling back to white.
func ColorOf(name string) color.RGBA {
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	return colornames.White
}

// BaseTint is the color a ball is drawn with before any behavior changes it.
func (s Scene) BaseTint(b Ball) color.RGBA {
	switch {
	case b.Tint != "":
		return ColorOf(b.Tint)
	case b.Kind == KindColor:
		return ColorOf(s.Behaviors.Color.From)
	default:
		return KindTint(b.Kind)
	}
}

// KindTint is the default color of a kind.
func KindTint(k Kind) color.RGBA {
	if c, ok := kindTints[k]; ok {
		return c
	}
	return colornames.White
}

var kindTints = map[Kind]color.RGBA{
	KindPlain:   colornames.Lightgray,
	KindBouncy:  colornames.Gold,
	KindColor:   colornames.White,
	KindMass:    colornames.Steelblue,
	KindGravity: colornames.Mediumpurple,
	KindSpawner: colornames.Seagreen,
}

// Sprite is the drawable state of one ball, produced by either world
// implementation.
type Sprite struct {
	X, Y   float64
	Angle  float64
	Radius float64
	Color  color.RGBA
}
