package cli

import (
	"github.com/lensfinder/backend/config"
	"github.com/lensfinder/backend/internal/app"
	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/presenter"
	"github.com/lensfinder/backend/internal/usecase"
	"github.com/spf13/cobra"
)

// prescriptionFlags collects both eyes of a spectacle prescription
type prescriptionFlags struct {
	rightSphere, rightCyl float64
	rightAxis             int
	rightAdd              float64
	leftSphere, leftCyl   float64
	leftAxis              int
	leftAdd               float64
	vertexDistance        float64
	addPower              float64
	dominantEye           string
}

func (p *prescriptionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&p.rightSphere, "right-sphere", 0, "right eye sphere (D)")
	flags.Float64Var(&p.rightCyl, "right-cyl", 0, "right eye cylinder, minus notation (D)")
	flags.IntVar(&p.rightAxis, "right-axis", 0, "right eye axis (0-180)")
	flags.Float64Var(&p.leftSphere, "left-sphere", 0, "left eye sphere (D)")
	flags.Float64Var(&p.leftCyl, "left-cyl", 0, "left eye cylinder, minus notation (D)")
	flags.IntVar(&p.leftAxis, "left-axis", 0, "left eye axis (0-180)")
	flags.Float64Var(&p.rightAdd, "right-add", 0, "reading addition written for the right eye (D)")
	flags.Float64Var(&p.leftAdd, "left-add", 0, "reading addition written for the left eye (D)")
	flags.Float64Var(&p.vertexDistance, "vertex", 0, "vertex distance in mm (default from config, 12)")
	flags.Float64Var(&p.addPower, "add", 0, "reading addition for both eyes (D), 0 for single vision")
	flags.StringVar(&p.dominantEye, "dominant", "", "dominant eye: right or left")
}

func (p *prescriptionFlags) request() *domain.CalculationRequest {
	return &domain.CalculationRequest{
		Right:          domain.SpectaclePrescription{Sphere: p.rightSphere, Cylinder: p.rightCyl, Axis: p.rightAxis, Add: p.rightAdd},
		Left:           domain.SpectaclePrescription{Sphere: p.leftSphere, Cylinder: p.leftCyl, Axis: p.leftAxis, Add: p.leftAdd},
		VertexDistance: p.vertexDistance,
		AddPower:       p.addPower,
		DominantEye:    domain.EyeSide(p.dominantEye),
	}
}

// criteria reads the flags as powers that are already at the cornea
func (p *prescriptionFlags) criteria() domain.MatchCriteria {
	return domain.MatchCriteria{
		Right:    domain.LensPower{Spherical: p.rightSphere, Cylinder: p.rightCyl},
		Left:     domain.LensPower{Spherical: p.leftSphere, Cylinder: p.leftCyl},
		AddPower: p.addPower,
	}
}

func calculatorConfig(cfg *config.Config) usecase.CalculatorServiceConfig {
	return usecase.CalculatorServiceConfig{
		DefaultVertexDistance: cfg.Calculator.DefaultVertexDistance,
		EnableDebugLogging:    cfg.Calculator.Debug,
	}
}

func newConvertCommand(opts *options) *cobra.Command {
	rx := &prescriptionFlags{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a spectacle prescription to contact lens powers.",
		Long: `Transpose both eyes of a spectacle prescription to the corneal plane
and round to orderable quarter-diopter steps. The catalog is not consulted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			calculator := usecase.NewCalculatorService(nil, calculatorConfig(cfg))
			result, err := calculator.Convert(cmd.Context(), rx.request())
			if err != nil {
				return err
			}
			return writeCalculation(cmd.OutOrStdout(), opts.output, result, presenter.Summarize(result, nil), false)
		},
	}
	rx.register(cmd)
	return cmd
}

func newMatchCommand(opts *options) *cobra.Command {
	rx := &prescriptionFlags{}
	var (
		modality string
		rounded  bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Convert a prescription and list the catalog lenses that fit both eyes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := opts.catalogContext(cmd.Context(), cfg)
			if rounded {
				lenses, err := application.Calculator.Search(ctx, rx.criteria(), modality)
				if err != nil {
					return err
				}
				return writeLenses(cmd.OutOrStdout(), opts.output, lenses)
			}

			result, err := application.Calculator.Calculate(ctx, rx.request())
			if err != nil {
				return err
			}

			visible := result.Lenses
			if modality != "" {
				visible = usecase.FilterByModality(result.Lenses, modality)
			}
			return writeCalculation(cmd.OutOrStdout(), opts.output, result, presenter.Summarize(result, visible), true)
		},
	}
	rx.register(cmd)
	cmd.Flags().StringVar(&modality, "modality", "", "only show lenses of this modality (daily, monthly, ... or all)")
	cmd.Flags().BoolVar(&rounded, "rounded", false, "treat sphere and cylinder as contact lens powers and skip conversion")
	return cmd
}
