package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
	"github.com/matzehuels/stackmotion/pkg/scene"
	"github.com/matzehuels/stackmotion/pkg/trajectory"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	output    string  // output root holding checkpoints
	prefix    string  // artifact file prefix
	pre       string  // explicit pre state file
	goal      string  // explicit goal state file
	frames    int     // frame budget
	threshold float64 // active-object distance threshold
	all       bool    // print inactive objects too
}

// planCommand creates the plan command, which prints the trajectory of one
// transition without rendering anything.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{
		output:    pipeline.DefaultOutputDir,
		prefix:    checkpoint.DefaultPrefix,
		frames:    pipeline.DefaultFrames,
		threshold: trajectory.DefaultActiveThreshold,
	}

	cmd := &cobra.Command{
		Use:   "plan [index]",
		Short: "Print the planned trajectory of a transition",
		Long: `Plan computes the lift, translate and lower trajectory for a transition and
prints the location of every moving object in every frame.

The pre and goal states come from the checkpoint of the given index, or from
--pre and --goal scene JSON files.`,
		Example: `  stackmotion plan 12 -o output
  stackmotion plan --pre pre.json --goal goal.json -f 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pre, goal, err := opts.load(args)
			if err != nil {
				return err
			}
			return runPlan(pre, goal, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output root directory")
	cmd.Flags().StringVar(&opts.prefix, "prefix", opts.prefix, "artifact file prefix")
	cmd.Flags().StringVar(&opts.pre, "pre", "", "pre state JSON file")
	cmd.Flags().StringVar(&opts.goal, "goal", "", "goal state JSON file")
	cmd.Flags().IntVarP(&opts.frames, "frames", "f", opts.frames, "frames per transition")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", opts.threshold, "minimum distance for an object to move")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "print inactive objects too")
	return cmd
}

func (o planOpts) load(args []string) (scene.State, scene.State, error) {
	if o.pre != "" || o.goal != "" {
		if o.pre == "" || o.goal == "" || len(args) > 0 {
			return scene.State{}, scene.State{}, errors.New(errors.ErrCodeConfiguration, "use either an index or both --pre and --goal")
		}
		pre, err := readStateFile(o.pre)
		if err != nil {
			return scene.State{}, scene.State{}, err
		}
		goal, err := readStateFile(o.goal)
		if err != nil {
			return scene.State{}, scene.State{}, err
		}
		return pre, goal, nil
	}

	if len(args) == 0 {
		return scene.State{}, scene.State{}, errors.New(errors.ErrCodeConfiguration, "transition index required")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 {
		return scene.State{}, scene.State{}, errors.New(errors.ErrCodeConfiguration, "invalid transition index %q", args[0])
	}
	layout := checkpoint.Layout{Root: o.output, Prefix: o.prefix}
	if err := layout.Validate(); err != nil {
		return scene.State{}, scene.State{}, err
	}
	cp, found, err := checkpoint.NewStore(layout).Resolve(i)
	if err != nil {
		return scene.State{}, scene.State{}, errors.AtTransition(i, err)
	}
	if !found {
		return scene.State{}, scene.State{}, errors.New(errors.ErrCodeInvalidInput, "transition %d has no checkpoint in %s", i, o.output)
	}
	return cp.Pre, cp.Goal, nil
}

func readStateFile(path string) (scene.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return scene.State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return scene.Read(f)
}

func runPlan(pre, goal scene.State, opts planOpts) error {
	elevation := pipeline.OperatingElevation(pre, goal)
	frames, err := trajectory.Plan(pre, goal, opts.frames, elevation, trajectory.WithActiveThreshold(opts.threshold))
	if err != nil {
		return err
	}
	active := trajectory.ActiveIDs(pre, goal, opts.threshold)
	phases := trajectory.Split(opts.frames)

	ids := make([]int, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	printKeyValue("Objects", strconv.Itoa(pre.Len()))
	printKeyValue("Active", fmt.Sprint(ids))
	printKeyValue("Elevation", fmt.Sprintf("%.3f", elevation))
	printKeyValue("Phases", fmt.Sprintf("lift %d · translate %d · lower %d", phases.Lift, phases.Translate, phases.Lower))
	fmt.Println()

	for j, st := range frames {
		fmt.Println(StyleTitle.Render(fmt.Sprintf("frame %03d", j)) + " " + StyleDim.Render(phaseName(phases, j)))
		for _, o := range st.Objects {
			if !active[o.ID] && !opts.all {
				continue
			}
			label := fmt.Sprintf("%d %s", o.ID, o.Shape)
			value := o.Location.String()
			if !active[o.ID] {
				value = StyleDim.Render(value)
			}
			printDetail("%-14s %s", label, value)
		}
	}
	return nil
}

func phaseName(p trajectory.Phases, j int) string {
	switch {
	case j < p.Lift:
		return "lift"
	case j < p.Lift+p.Translate:
		return "translate"
	default:
		return "lower"
	}
}
