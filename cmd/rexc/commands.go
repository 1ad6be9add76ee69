package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviszhen/rexgen/pkg/common"
	"github.com/daviszhen/rexgen/pkg/compute"
	"github.com/daviszhen/rexgen/pkg/util"
)

//derive cmd

var deriveInfo = "derive the result type of t1 * t2 or t1 / t2"
var deriveCmd = &cobra.Command{
	Use:   "derive <*|/> <type1> <type2>",
	Short: deriveInfo,
	Long:  deriveInfo,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDerive(cmd, args[0], args[1], args[2])
	},
}

func initDeriveCmd() {
	RootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().Int("product_scale_cap", util.DefaultProductScaleCap, "fractional digits a product keeps")
	deriveCmd.Flags().Int("min_quotient_scale", util.DefaultMinQuotientScale, "min fractional digits of a quotient")
	deriveCmd.Flags().Int("quotient_scale_cap", util.DefaultQuotientScaleCap, "max fractional digits of a quotient")

	viper.BindPFlag("decimal.productScaleCap", deriveCmd.Flags().Lookup("product_scale_cap"))
	viper.BindPFlag("decimal.minQuotientScale", deriveCmd.Flags().Lookup("min_quotient_scale"))
	viper.BindPFlag("decimal.quotientScaleCap", deriveCmd.Flags().Lookup("quotient_scale_cap"))
}

func runDerive(cmd *cobra.Command, op, name1, name2 string) error {
	t1, err := common.ParseLType(name1)
	if err != nil {
		return err
	}
	t2, err := common.ParseLType(name2)
	if err != nil {
		return err
	}
	rule := common.NewDecimalRuleFromConfig(rexcCfg)
	out := cmd.OutOrStdout()
	switch op {
	case "*":
		ret, ok := rule.CreateProduct(t1, t2)
		if !ok {
			fmt.Fprintf(out, "%v * %v: not exact numeric\n", t1, t2)
			return nil
		}
		fmt.Fprintf(out, "%v * %v = %v wide=%v\n", t1, t2, ret, rule.UseDoubleMultiplication(t1, t2))
	case "/":
		ret, ok := rule.CreateQuotient(t1, t2)
		if !ok {
			fmt.Fprintf(out, "%v / %v: not exact numeric\n", t1, t2)
			return nil
		}
		fmt.Fprintf(out, "%v / %v = %v\n", t1, t2, ret)
	default:
		return fmt.Errorf("unknown operator %q. use * or /", op)
	}
	return nil
}

//special cmd

var specialInfo = "list the special operators and their pseudo column ids"
var specialCmd = &cobra.Command{
	Use:   "special",
	Short: specialInfo,
	Long:  specialInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), compute.ExplainSpecials(compute.DefaultSpecialOperators()))
		return nil
	},
}

func initSpecialCmd() {
	RootCmd.AddCommand(specialCmd)
}

//translate cmd

var translateInfo = "translate the expressions of a yaml document"
var translateCmd = &cobra.Command{
	Use:   "translate <file.yaml>",
	Short: translateInfo,
	Long:  translateInfo,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranslate(cmd, args[0])
	},
}

func initTranslateCmd() {
	RootCmd.AddCommand(translateCmd)
	translateCmd.Flags().Int("parallelism", 4, "expressions translated at the same time")
	translateCmd.Flags().Bool("explain", false, "print expression trees")

	viper.BindPFlag("codegen.parallelism", translateCmd.Flags().Lookup("parallelism"))
	viper.BindPFlag("codegen.printTree", translateCmd.Flags().Lookup("explain"))
}

func runTranslate(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := compute.ParseExprDoc(data)
	if err != nil {
		return err
	}
	builder := compute.NewBuilder(common.NewDecimalRuleFromConfig(rexcCfg), nil)
	_, nodes, err := doc.Build(builder)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if rexcCfg.Codegen.PrintTree {
		fmt.Fprint(out, compute.ExplainAll(nodes))
	}
	frags, err := compute.TranslateAll(
		context.Background(),
		compute.DefaultImplementorTable(),
		nil,
		nodes,
		rexcCfg.Codegen.Parallelism,
	)
	if err != nil {
		return err
	}
	util.Info("translated",
		zap.String("file", path),
		zap.Int("exprs", len(frags)))
	for i, frag := range frags {
		fmt.Fprintf(out, "%d: %s : %v\n", i, frag.Code, frag.Typ)
	}
	return nil
}
