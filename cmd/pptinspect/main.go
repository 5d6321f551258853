package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/VantageDataChat/pptdom"
	"github.com/VantageDataChat/pptdom/internal/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig        string
	flagVerbose       int
	flagShapesSlide   int
	flagGeometrySlide int
	flagShape         string
	flagSet           string
	flagOut           string
)

var rootCmd = &cobra.Command{
	Use:     "pptinspect",
	Short:   "Show the effective, inherited properties of shapes in a .pptx file",
	Version: pptdom.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
	SilenceUsage: true,
}

var shapesCmd = &cobra.Command{
	Use:   "shapes FILE",
	Short: "List shapes with their resolved transform and run fonts",
	Args:  cobra.ExactArgs(1),
	RunE:  runShapes,
}

var geometryCmd = &cobra.Command{
	Use:   "geometry FILE",
	Short: "Print or change the adjustment values of a shape",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeometry,
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that every slide's inherited properties resolve",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), pptdom.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log verbosity (repeat for more)")
	shapesCmd.Flags().StringVar(&flagConfig, "config", "", "path to HCL config file")
	shapesCmd.Flags().IntVar(&flagShapesSlide, "slide", 0, "only this slide (1-based)")
	geometryCmd.Flags().IntVar(&flagGeometrySlide, "slide", 1, "slide number (1-based)")
	geometryCmd.Flags().StringVar(&flagShape, "shape", "", "shape name")
	geometryCmd.Flags().StringVar(&flagSet, "set", "", "comma-separated adjustment percentages to write")
	geometryCmd.Flags().StringVar(&flagOut, "out", "", "output file (defaults to overwriting FILE)")
	_ = geometryCmd.MarkFlagRequired("shape")
	rootCmd.AddCommand(shapesCmd)
	rootCmd.AddCommand(geometryCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func runShapes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagShapesSlide > 0 {
		cfg.Slides = []int{flagShapesSlide}
	}

	pres, err := pptdom.Open(args[0])
	if err != nil {
		return err
	}
	defer pres.Close()

	out := cmd.OutOrStdout()
	for i, slide := range pres.Slides() {
		if !cfg.Wants(i + 1) {
			continue
		}
		fmt.Fprintf(out, "slide %d (%s)\n", i+1, slide.Name())
		for _, s := range slide.AllShapes() {
			printShape(cmd, s, cfg)
		}
	}
	return nil
}

func printShape(cmd *cobra.Command, s *pptdom.Shape, cfg *config.Config) {
	out := cmd.OutOrStdout()
	line := fmt.Sprintf("  #%d %q", s.ID(), s.Name())
	if alt := s.Description(); alt != "" {
		line += fmt.Sprintf(" alt %q", alt)
	}
	if id, ok := s.Placeholder(); ok {
		line += " placeholder " + id.String()
	}
	if t, err := s.SlideTransform(); err == nil {
		line += fmt.Sprintf(" at (%.2fin, %.2fin) size %.2fin x %.2fin",
			pptdom.EMUToInch(t.OffsetX), pptdom.EMUToInch(t.OffsetY),
			pptdom.EMUToInch(t.Width), pptdom.EMUToInch(t.Height))
		if t.Rotation != 0 {
			line += fmt.Sprintf(" rot %.1f", t.Rotation)
		}
	} else {
		line += " (no transform)"
	}
	if kind, ok := s.EffectiveGeometryType(); ok {
		line += " " + string(kind)
	}
	if hex, ok := s.FillHex(); ok {
		line += " fill #" + hex
	}
	fmt.Fprintln(out, line)

	for pi, para := range s.Paragraphs() {
		for _, run := range para.Runs() {
			f := run.Font(cfg.Defaults)
			fmt.Fprintf(out, "    p%d L%d %q: %s %.1fpt bold=%t #%s\n",
				pi+1, para.Level(), run.Text(), f.Name, f.Size, f.Bold, f.Color)
		}
	}
}

func runGeometry(cmd *cobra.Command, args []string) error {
	pres, err := pptdom.Open(args[0])
	if err != nil {
		return err
	}
	defer pres.Close()

	slide, err := pres.GetSlide(flagGeometrySlide - 1)
	if err != nil {
		return err
	}
	shape, err := slide.ShapeByName(flagShape)
	if err != nil {
		return err
	}

	if flagSet != "" {
		values, err := parseValues(flagSet)
		if err != nil {
			return err
		}
		if err := shape.SetAdjustments(values); err != nil {
			return err
		}
		dest := flagOut
		if dest == "" {
			dest = args[0]
		}
		if err := pres.Save(dest); err != nil {
			return fmt.Errorf("saving: %w", err)
		}
	}

	kind, err := shape.GeometryType()
	if err != nil {
		return err
	}
	values, err := shape.Adjustments()
	if err != nil {
		return err
	}
	names, _ := pptdom.AdjustmentNames(kind)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", shape.Name(), kind)
	for i, v := range values {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %g\n", names[i], v)
	}
	return nil
}

func parseValues(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("--set: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	pres, err := pptdom.Open(args[0])
	if err != nil {
		return err
	}
	defer pres.Close()

	if err := pres.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d slides)\n", args[0], pres.GetSlideCount())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
