package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ShowConfig prints the effective panel and simulator settings as a config
// file that --config accepts.
type ShowConfig struct {
	Format string `help:"Output format" enum:"yaml,toml" default:"yaml"`

	out io.Writer
}

// Sections are the flag prefixes, keys the rest of the flag name.
type configDoc struct {
	Panel panelDoc `yaml:"panel" toml:"panel"`
	Sim   simDoc   `yaml:"sim" toml:"sim"`
}

type panelDoc struct {
	VID    string `yaml:"vid" toml:"vid"`
	PID    string `yaml:"pid" toml:"pid"`
	Serial string `yaml:"serial,omitempty" toml:"serial,omitempty"`
	Path   string `yaml:"path,omitempty" toml:"path,omitempty"`
}

type simDoc struct {
	Listen      string `yaml:"listen" toml:"listen"`
	Target      string `yaml:"target" toml:"target"`
	PollTimeout string `yaml:"poll-timeout" toml:"poll-timeout"`
}

// Run is called by Kong when the show-config command is executed.
func (c *ShowConfig) Run(g *Globals) error {
	w := c.out
	if w == nil {
		w = os.Stdout
	}
	b, err := c.render(g)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (c *ShowConfig) render(g *Globals) ([]byte, error) {
	doc := configDoc{
		Panel: panelDoc{
			VID:    g.Panel.VendorID.String(),
			PID:    g.Panel.ProductID.String(),
			Serial: g.Panel.Serial,
			Path:   g.Panel.Path,
		},
		Sim: simDoc{
			Listen:      g.Sim.Listen,
			Target:      g.Sim.Target,
			PollTimeout: g.Sim.PollTimeout.String(),
		},
	}

	switch c.Format {
	case "toml":
		return toml.Marshal(doc)
	case "yaml", "":
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q", c.Format)
	}
}
