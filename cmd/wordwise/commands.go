package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/plaintext"
	"github.com/zombar/wordwise/internal/readability"
)

// readDocument loads the document named by args, or stdin when args is
// empty, and reduces it to plain text.
func readDocument(cmd *cobra.Command, args []string, format string, logger *zap.Logger) (string, error) {
	var (
		raw  []byte
		err  error
		path = "-"
	)
	if len(args) > 0 && args[0] != "-" {
		path = args[0]
		raw, err = os.ReadFile(path)
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	docFormat := plaintext.DetectFormat(path)
	if format != "" {
		if docFormat, err = models.ParseDocumentFormat(format); err != nil {
			return "", err
		}
	}

	text, err := plaintext.Convert(string(raw), docFormat)
	if err != nil {
		return "", err
	}

	logger.Debug("document loaded",
		zap.String("path", path),
		zap.String("format", string(docFormat)),
		zap.Int("bytes", len(raw)),
		zap.Int("text_chars", len(text)))
	return text, nil
}

func newMetricsCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "metrics [file]",
		Short: "Compute readability metrics for a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, args, format, opts.logger)
			if err != nil {
				return err
			}

			m := readability.CalculateMetrics(text, opts.targetLevel())
			return newPrinter(cmd.OutOrStdout(), opts.output).print(m, func(p *printer) string {
				return p.metrics(m)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: plain, markdown or html (default: from file extension)")
	return cmd
}

func newAssessCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "assess [file]",
		Short: "Assess a document and suggest improvements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, args, format, opts.logger)
			if err != nil {
				return err
			}

			a := readability.AssessReadability(text, opts.targetLevel())
			opts.logger.Debug("assessment complete",
				zap.Int("grade_level", a.Metrics.RecommendedGradeLevel),
				zap.Int("strengths", len(a.Strengths)),
				zap.Int("improvement_areas", len(a.ImprovementAreas)))

			return newPrinter(cmd.OutOrStdout(), opts.output).print(a, func(p *printer) string {
				return p.assessment(a, opts.targetLevel())
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: plain, markdown or html (default: from file extension)")
	return cmd
}

// interpretation is the result of the interpret command.
type interpretation struct {
	Score  float64                 `json:"score"`
	Metric readability.ScoreMetric `json:"metric"`
	Label  string                  `json:"label"`
}

func newInterpretCmd(opts *options) *cobra.Command {
	var metric string
	cmd := &cobra.Command{
		Use:   "interpret <score>",
		Short: "Describe a Flesch reading ease or grade-level score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}

			m := readability.ScoreMetric(metric)
			if m != readability.MetricFlesch && m != readability.MetricGradeLevel {
				return fmt.Errorf("unknown metric %q: use %s or %s", metric, readability.MetricFlesch, readability.MetricGradeLevel)
			}

			res := interpretation{Score: score, Metric: m, Label: readability.InterpretReadabilityScore(score, m)}
			return newPrinter(cmd.OutOrStdout(), opts.output).print(res, func(p *printer) string {
				return p.interpretation(res)
			})
		},
	}
	cmd.Flags().StringVarP(&metric, "metric", "m", string(readability.MetricFlesch), "Score scale: flesch or grade-level")
	return cmd
}
