package lems

import (
	"fmt"
	"math/rand"

	"github.com/neuroml/gonml/model/units"
)

const defaultGenerateSeed = 12345

// Builder assembles a LEMS simulation file for a NeuroML2 model. Duration
// and step are accepted either as bare millisecond magnitudes or as quantity
// strings with time units ("500 ms", "0.5s").
type Builder struct {
	simulation *Simulation
	target     *Target
	comment    string
	includes   []string
	rand       *rand.Rand
}

// Option customises a Builder.
type Option func(b *Builder)

// WithTarget sets the simulation target component (usually the network id).
func WithTarget(target string) Option {
	return func(b *Builder) { b.simulation.Target = target }
}

// WithSeed sets the simulation seed passed to the engine.
func WithSeed(seed int) Option {
	return func(b *Builder) { b.simulation.Seed = seed }
}

// WithComment overrides the generated file comment.
func WithComment(comment string) Option {
	return func(b *Builder) { b.comment = comment }
}

// WithReportFile sets the post-run report file attribute on the target.
func WithReportFile(name string) Option {
	return func(b *Builder) { b.target.ReportFile = name }
}

// WithMeta attaches engine specific solver settings.
func WithMeta(meta *Meta) Option {
	return func(b *Builder) { b.simulation.Meta = meta }
}

// WithGenerateSeed seeds the colour generator so repeated generation yields
// identical files.
func WithGenerateSeed(seed int64) Option {
	return func(b *Builder) { b.rand = rand.New(rand.NewSource(seed)) }
}

// NewBuilder creates a Builder for a simulation with the given id, duration
// and step.
func NewBuilder(id string, duration, step string, options ...Option) (*Builder, error) {
	durationMs, err := units.Convert(duration, "ms")
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	stepMs, err := units.Convert(step, "ms")
	if err != nil {
		return nil, fmt.Errorf("invalid step: %w", err)
	}

	builder := &Builder{
		simulation: &Simulation{
			ID:     id,
			Length: fmt.Sprintf("%gms", durationMs),
			Step:   fmt.Sprintf("%gms", stepMs),
			Seed:   12345,
		},
		target:  &Target{Component: id},
		comment: "This LEMS file has been generated with gonml",
		rand:    rand.New(rand.NewSource(defaultGenerateSeed)),
	}
	for _, option := range options {
		option(builder)
	}
	return builder, nil
}

// Include adds a model file include; duplicates are ignored.
func (b *Builder) Include(file string) {
	for _, existing := range b.includes {
		if existing == file {
			return
		}
	}
	b.includes = append(b.includes, file)
}

// AddDisplay creates a plot panel spanning the full simulation duration.
func (b *Builder) AddDisplay(id, title string, ymin, ymax float64) *Display {
	display := &Display{
		ID:        id,
		Title:     title,
		TimeScale: "1ms",
		Xmin:      0,
		Xmax:      b.durationMs(),
		Ymin:      ymin,
		Ymax:      ymax,
	}
	b.simulation.Displays = append(b.simulation.Displays, display)
	return display
}

// AddLine adds a recorded quantity to a display; an empty color is replaced
// with the next deterministic colour.
func (b *Builder) AddLine(display *Display, id, quantity, scale, color string) *Line {
	if color == "" {
		color = b.NextColor()
	}
	line := &Line{ID: id, Quantity: quantity, Scale: scale, Color: color, TimeScale: "1ms"}
	display.Lines = append(display.Lines, line)
	return line
}

// AddOutputFile creates a column data file.
func (b *Builder) AddOutputFile(id, fileName string) *OutputFile {
	output := &OutputFile{ID: id, FileName: fileName}
	b.simulation.OutputFiles = append(b.simulation.OutputFiles, output)
	return output
}

// AddColumn records a quantity as a column of an output file.
func (b *Builder) AddColumn(output *OutputFile, id, quantity string) {
	output.Columns = append(output.Columns, &OutputColumn{ID: id, Quantity: quantity})
}

// AddEventOutputFile creates a spike event file.
func (b *Builder) AddEventOutputFile(id, fileName, format string) (*EventOutputFile, error) {
	if format != FormatTimeID && format != FormatIDTime {
		return nil, fmt.Errorf("unsupported event format %q", format)
	}
	events := &EventOutputFile{ID: id, FileName: fileName, Format: format}
	b.simulation.EventOutputFiles = append(b.simulation.EventOutputFiles, events)
	return events, nil
}

// AddEventSelection records spikes from a component path on an event port.
func (b *Builder) AddEventSelection(events *EventOutputFile, id int, selectPath, eventPort string) {
	events.Selections = append(events.Selections, &EventSelection{ID: id, Select: selectPath, EventPort: eventPort})
}

// NextColor returns the next colour from the seeded generator.
func (b *Builder) NextColor() string {
	return fmt.Sprintf("#%06x", b.rand.Intn(0xffffff+1))
}

// Build assembles the LEMS file; the target defaults to the simulation id's
// network when unset.
func (b *Builder) Build() (*File, error) {
	if b.simulation.Target == "" {
		return nil, fmt.Errorf("simulation %v has no target component", b.simulation.ID)
	}
	b.target.Component = b.simulation.ID

	file := &File{
		Comment: " " + b.comment + " ",
		Target:  b.target,
	}
	for _, include := range StandardIncludes {
		file.Includes = append(file.Includes, &Include{File: include})
	}
	for _, include := range b.includes {
		file.Includes = append(file.Includes, &Include{File: include})
	}
	file.Simulations = append(file.Simulations, b.simulation)
	return file, nil
}

func (b *Builder) durationMs() float64 {
	var value float64
	_, _ = fmt.Sscanf(b.simulation.Length, "%g", &value)
	return value
}
