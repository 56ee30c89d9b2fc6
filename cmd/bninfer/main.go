// Command bninfer reverse-engineers partially specified boolean
// regulatory networks from observed steady states, either through the
// weighted optimization engine (solve) or through the exhaustive
// minimal-relaxation search (naive).
package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bninfer/network"
	"bninfer/observations"
	"bninfer/solve"
	"bninfer/symbolic"
)

var (
	modelPath  string
	dataPath   string
	confidence string
)

func main() {
	root := &cobra.Command{
		Use:           "bninfer",
		Short:         "Boolean network inference from steady-state observations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&modelPath, "model", "m", "", "network description file")
	root.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "observation table (CSV)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Find an optimal network interpretation with the MaxSAT engine",
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVarP(&confidence, "confidence", "c", "1/2", "uniform confidence for observed values, in (0,1]")

	naiveCmd := &cobra.Command{
		Use:   "naive",
		Short: "Find all minimum-cardinality dataset relaxations",
		RunE:  runNaive,
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize a network description",
		RunE:  runInfo,
	}

	root.AddCommand(solveCmd, naiveCmd, infoCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bninfer:", err)
		os.Exit(1)
	}
}

func loadModel() (*network.Model, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("--model is required")
	}
	m, err := network.ParseFile(modelPath)
	if err != nil {
		return nil, err
	}
	if err := m.NameImplicitFunctions(); err != nil {
		return nil, err
	}
	return m, nil
}

func loadInputs() (*network.Model, *observations.Dataset, error) {
	if dataPath == "" {
		return nil, nil, fmt.Errorf("both --model and --data are required")
	}
	m, err := loadModel()
	if err != nil {
		return nil, nil, err
	}
	ds, err := observations.Load(dataPath)
	if err != nil {
		return nil, nil, err
	}
	return m, ds, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	m, ds, err := loadInputs()
	if err != nil {
		return err
	}
	weight, ok := new(big.Rat).SetString(confidence)
	if !ok {
		return fmt.Errorf("cannot parse confidence %q", confidence)
	}
	problem, err := ds.Problem(m, weight)
	if err != nil {
		return err
	}

	result, err := solve.NewMaxSatSolver().Solve(problem.BuildQuery())
	if err != nil {
		return err
	}
	fmt.Println("status:", result.Status)
	if result.Status != solve.StatusSat {
		return nil
	}
	fmt.Println("violated weight:", result.Objective.RatString())
	for _, id := range ds.IDs() {
		values, err := problem.State(id).ExtractState(result.Model)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", id, bitString(values))
	}
	for i := 0; i < m.NumFunctions(); i++ {
		table := problem.ExtractFunction(result.Model, network.FunctionID(i))
		fmt.Printf("%s = %s\n", table.Name(), table.Formula())
	}
	return nil
}

func runNaive(cmd *cobra.Command, args []string) error {
	m, ds, err := loadInputs()
	if err != nil {
		return err
	}
	search, err := symbolic.NewNaiveSearch(m, ds)
	if err != nil {
		return err
	}
	relaxations := search.Run()
	if len(relaxations) == 0 {
		fmt.Println("no consistent relaxation exists")
		return nil
	}
	fmt.Printf("minimal relaxations (%d dropped entries):\n", len(relaxations[0].Dropped))
	for _, r := range relaxations {
		dropped := make([]string, len(r.Dropped))
		for i, e := range r.Dropped {
			dropped[i] = e.String()
		}
		if len(dropped) == 0 {
			dropped = []string{"(none)"}
		}
		fmt.Printf("  drop %s -> %s consistent colors\n", strings.Join(dropped, ", "), r.Count)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	fmt.Printf("components: %d, regulations: %d, uninterpreted functions: %d\n",
		m.NumComponents(), len(m.Regulations()), m.NumFunctions())
	for i := 0; i < m.NumComponents(); i++ {
		id := network.ComponentID(i)
		fmt.Printf("  $%s: %s\n", m.ComponentName(id), m.ExprString(m.Update(id)))
	}
	groups := m.ConnectedComponents()
	fmt.Printf("independent subnetworks: %d\n", len(groups))
	for _, group := range groups {
		names := make([]string, len(group))
		for i, id := range group {
			names[i] = m.ComponentName(id)
		}
		fmt.Printf("  {%s}\n", strings.Join(names, ", "))
	}
	return nil
}

func bitString(values []bool) string {
	var b strings.Builder
	for _, v := range values {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
