package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cottand/typeflow/graph"
	"github.com/cottand/typeflow/internal/log"
	"github.com/cottand/typeflow/lattice"
	"github.com/cottand/typeflow/solver"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var SolveCmd = &cobra.Command{
	Use:          "solve flows.yml",
	Short:        "Check a flow script for type convergence",
	RunE:         runSolve,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	logLevel   *int
	nodeBudget *int
)

func init() {
	logLevel = SolveCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
	nodeBudget = SolveCmd.Flags().Int("node-budget", 0, "abort after this many nodes (0 for no bound)")
}

// script is the on-disk shape of a flow problem: named nodes over the
// primitive lattice, and the flows asserted between them.
type script struct {
	Nodes []scriptNode `yaml:"nodes"`
	Flows []scriptFlow `yaml:"flows"`
}

type scriptNode struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	Use   string `yaml:"use,omitempty"`
}

type scriptFlow struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "could not read flow script")
	}
	var sc script
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return errors.Wrap(err, "could not parse flow script")
	}

	s := solver.New[lattice.Primitive, lattice.Primitive](
		lattice.Converging[lattice.Primitive]{},
		solver.WithNodeBudget(*nodeBudget),
	)

	values := make(map[string]solver.Value)
	uses := make(map[string]solver.Use)
	for _, n := range sc.Nodes {
		if n.Name == "" {
			return errors.New("every node needs a name")
		}
		if _, taken := values[n.Name]; taken {
			return errors.Errorf("duplicate node name %q", n.Name)
		}
		if _, taken := uses[n.Name]; taken {
			return errors.Errorf("duplicate node name %q", n.Name)
		}
		switch {
		case n.Value != "" && n.Use != "":
			return errors.Errorf("node %q declares both a value and a use", n.Name)
		case n.Value != "":
			p, err := lattice.Parse(n.Value)
			if err != nil {
				return errors.Wrapf(err, "node %q", n.Name)
			}
			values[n.Name] = s.NewValue(p)
		case n.Use != "":
			p, err := lattice.Parse(n.Use)
			if err != nil {
				return errors.Wrapf(err, "node %q", n.Name)
			}
			uses[n.Name] = s.NewUse(p)
		default:
			v, u := s.NewPlaceholder()
			values[n.Name] = v
			uses[n.Name] = u
		}
	}

	for _, f := range sc.Flows {
		from, ok := values[f.From]
		if !ok {
			return errors.Errorf("flow source %q is not a value or placeholder node", f.From)
		}
		to, ok := uses[f.To]
		if !ok {
			return errors.Errorf("flow target %q is not a use or placeholder node", f.To)
		}
		if err := s.AssertFlow(from, to); err != nil {
			return errors.Wrapf(err, "flow %s -> %s does not converge", f.From, f.To)
		}
	}

	report(cmd, s)
	return nil
}

func report(cmd *cobra.Command, s *solver.Solver[lattice.Primitive, lattice.Primitive]) {
	g := s.Graph()
	edges := 0
	for n := range g.Len() {
		edges += len(g.Downstream(graph.NodeID(n)))
	}
	checked := s.History()

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "converged: %d nodes, %d implied edges, %d checked flows\n", g.Len(), edges, len(checked))
	cmd.Print(sb.String())
}
