package trajectory_test

import (
	"fmt"

	"github.com/matzehuels/stackmotion/pkg/scene"
	"github.com/matzehuels/stackmotion/pkg/trajectory"
)

func ExamplePlan() {
	cube := scene.Object{ID: 0, Shape: "cube", Color: scene.Color{1, 0, 0, 1}, Size: 0.5, Stackable: true}

	pre := scene.New(cube)
	cube.Location = scene.Location{X: 5}
	goal := scene.New(cube)

	frames, err := trajectory.Plan(pre, goal, 6, 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	for j, s := range frames {
		fmt.Println(j, s.Objects[0].Location)
	}
	// Output:
	// 0 (0.000, 0.000, 0.000)
	// 1 (0.000, 0.000, 4.000)
	// 2 (0.000, 0.000, 4.000)
	// 3 (5.000, 0.000, 4.000)
	// 4 (5.000, 0.000, 4.000)
	// 5 (5.000, 0.000, 0.000)
}

func ExampleSplit() {
	fmt.Printf("%+v\n", trajectory.Split(20))
	// Output:
	// {Lift:6 Translate:8 Lower:6}
}
