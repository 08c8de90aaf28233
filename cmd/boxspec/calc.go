package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
	"github.com/hapkiduki/boxspec-go/internal/application/service"
	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
	"github.com/hapkiduki/boxspec-go/internal/infrastructure/config"
	"github.com/hapkiduki/boxspec-go/pkg/logger"
)

// Output formats accepted by calc -o.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type calcOptions struct {
	length   float64
	breadth  float64
	height   float64
	flute    string
	plies    int
	gsm      map[string]string
	prices   map[string]string
	boxes    int
	output   string
	logLevel string
}

func newCalcCmd(configFile *string) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate one box specification",
		Long: `Calculate the specification of a single box and print it.

Layer values are given as name=value pairs. Names are top, bottom, flute,
flute1, middle and flute2 (or their full keys such as top_paper).`,
		Example: `  boxspec calc --length 40 --breadth 30 --height 20 --gsm top=150,bottom=150
  boxspec calc -l 40 -b 30 -H 20 --plies 5 --gsm top=150,bottom=150,flute=120 --price flute=90 --boxes 200 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, *configFile, opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.length, "length", "l", 0, "box length in cm")
	f.Float64VarP(&opts.breadth, "breadth", "b", 0, "box breadth in cm")
	f.Float64VarP(&opts.height, "height", "H", 0, "box height in cm")
	f.StringVar(&opts.flute, "flute", string(valueobject.DefaultFluteType), "flute type (A, B or C)")
	f.IntVarP(&opts.plies, "plies", "p", int(dto.DefaultPly), "number of plies (3, 5 or 7)")
	f.StringToStringVar(&opts.gsm, "gsm", nil, "paper GSM per layer, e.g. top=150,bottom=150")
	f.StringToStringVar(&opts.prices, "price", nil, "paper price per kg per layer, e.g. flute=90")
	f.IntVarP(&opts.boxes, "boxes", "n", 1, "number of boxes ordered")
	f.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	f.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("breadth")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

// runCalc computes one specification and writes it to cmd's output.
func runCalc(cmd *cobra.Command, configFile string, opts *calcOptions) error {
	switch opts.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.output)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	calcCfg, err := cfg.Calculator.Domain()
	if err != nil {
		return err
	}
	calc, err := calculator.NewCalculator(calcCfg)
	if err != nil {
		return err
	}

	in, err := opts.input()
	if err != nil {
		return err
	}

	spec, err := service.NewBoxService(calc, nil, log).Calculate(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewBoxSpecificationResponse(spec))
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(dto.NewBoxSpecificationResponse(spec)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(out, spec)
	}
}

// input converts the flags into a calculator input.
//
// Returns:
//   - calculator.BoxInput: the request
//   - error: *calculator.ValidationError naming every malformed layer flag
func (o *calcOptions) input() (calculator.BoxInput, error) {
	verr := &calculator.ValidationError{}
	ply := valueobject.Ply(o.plies)
	gsm := dto.ParseLayerValues("gsm", parseLayerFlag("gsm", o.gsm, verr), ply, verr)
	prices := dto.ParseLayerValues("price", parseLayerFlag("price", o.prices, verr), ply, verr)
	if err := verr.Err(); err != nil {
		return calculator.BoxInput{}, err
	}

	return calculator.BoxInput{
		Dimensions: valueobject.NewBoxDimensions(o.length, o.breadth, o.height),
		FluteType:  valueobject.FluteType(strings.TrimSpace(o.flute)),
		Ply:        ply,
		GSM:        gsm,
		Prices:     prices,
		Quantity:   o.boxes,
	}, nil
}

func parseLayerFlag(flag string, raw map[string]string, verr *calculator.ValidationError) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for name, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			verr.Add(flag+"."+name, "must be a number", s)
			continue
		}
		out[name] = v
	}
	return out
}

// writeText prints the result as headed formula sections.
func writeText(w io.Writer, spec calculator.BoxSpecification) error {
	sections := []struct {
		title string
		lines []string
	}{
		{"Dimensions", spec.Formulas.Dimensions},
		{"Board Sizes", spec.Formulas.BoardSizes},
		{"UPS", spec.Formulas.ProductionMode},
		{"Paper Weights", spec.Formulas.PaperWeights},
		{"Cost Estimate", spec.Formulas.Costs},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Box: %s\n", spec.Input)
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s\n", s.title)
		for _, line := range s.lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	fmt.Fprintf(&b, "\nUPS: %s\n", spec.ProductionMode)
	fmt.Fprintf(&b, "Cost per box: %s\n", valueobject.NewMoney(spec.CostEstimate.CostPerUnit, spec.Constants.Currency).Format(spec.Constants.Precision))
	fmt.Fprintf(&b, "Total order cost (%d boxes): %s\n", spec.CostEstimate.Quantity, spec.TotalCost().Format(spec.Constants.Precision))

	_, err := io.WriteString(w, b.String())
	return err
}
