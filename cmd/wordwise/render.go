package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/zombar/wordwise/internal/readability"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	good   = lipgloss.Color("#8BC34A")
	warn   = lipgloss.Color("#FFC107")
	muted  = lipgloss.AdaptiveColor{Light: "#6A737D", Dark: "#8B949E"}
)

const (
	labelWidth = 30
	textWidth  = 76
)

// printer writes results in the selected output format.
type printer struct {
	out    io.Writer
	format string

	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
	note    lipgloss.Style
	para    lipgloss.Style
}

func newPrinter(out io.Writer, format string) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		format:  format,
		title:   r.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		heading: r.NewStyle().Bold(true).Foreground(accent).MarginTop(1),
		label:   r.NewStyle().Width(labelWidth).Foreground(muted),
		ok:      r.NewStyle().Foreground(good),
		bad:     r.NewStyle().Foreground(warn),
		note:    r.NewStyle().Foreground(muted).Italic(true),
		para:    r.NewStyle().Width(textWidth),
	}
}

// print writes v as JSON or YAML, or the styled text produced by text.
func (p *printer) print(v any, text func(*printer) string) error {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = p.out.Write(data)
		return err
	}
	_, err := fmt.Fprintln(p.out, text(p))
	return err
}

// toYAML renders v with its JSON field names and field order.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert to yaml: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle drops the flow and quoting styles JSON input parses with.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (p *printer) row(label string, value any) string {
	return p.label.Render(label) + fmt.Sprint(value)
}

func (p *printer) metrics(m readability.Metrics) string {
	var b strings.Builder
	b.WriteString(p.title.Render("Readability metrics"))
	b.WriteString("\n")

	rows := []string{
		p.row("Words", m.WordCount),
		p.row("Sentences", m.SentenceCount),
		p.row("Paragraphs", m.ParagraphCount),
		p.row("Syllables", m.SyllableCount),
		p.row("Characters", m.CharacterCount),
		"",
		p.row("Flesch reading ease", fmt.Sprintf("%.1f  %s", m.FleschReadingEase,
			p.note.Render(readability.InterpretReadabilityScore(m.FleschReadingEase, readability.MetricFlesch)))),
		p.row("Flesch-Kincaid grade", fmt.Sprintf("%.1f", m.FleschKincaidGrade)),
		p.row("Coleman-Liau index", fmt.Sprintf("%.1f", m.ColemanLiauIndex)),
		p.row("Automated readability index", fmt.Sprintf("%.1f", m.AutomatedReadabilityIndex)),
		p.row("Gunning fog index", fmt.Sprintf("%.1f", m.GunningFogIndex)),
		"",
		p.row("Words per sentence", fmt.Sprintf("%.1f", m.AverageWordsPerSentence)),
		p.row("Syllables per word", fmt.Sprintf("%.1f", m.AverageSyllablesPerWord)),
		p.row("Complex words", fmt.Sprintf("%.1f%%", m.ComplexWordPercentage)),
		p.row("Academic vocabulary", fmt.Sprintf("%.1f%%", m.AcademicVocabularyPercentage)),
		"",
		p.row("Recommended grade", fmt.Sprintf("%d  %s", m.RecommendedGradeLevel,
			p.note.Render(string(m.ReadingLevel)))),
		p.row("Appropriate for level", p.verdict(m.AppropriateForLevel)),
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

func (p *printer) verdict(ok bool) string {
	if ok {
		return p.ok.Render("yes")
	}
	return p.bad.Render("no")
}

func (p *printer) assessment(a readability.Assessment, level readability.TargetLevel) string {
	var b strings.Builder
	lo, hi := level.GradeRange()
	b.WriteString(p.title.Render(fmt.Sprintf("Assessment for %s readers (grades %d-%d)", level, lo, hi)))
	b.WriteString("\n")
	b.WriteString(p.row("Recommended grade", fmt.Sprintf("%d  %s",
		a.Metrics.RecommendedGradeLevel, p.note.Render(string(a.Metrics.ReadingLevel)))))
	b.WriteString("\n")
	b.WriteString(p.row("Flesch reading ease", fmt.Sprintf("%.1f", a.Metrics.FleschReadingEase)))
	b.WriteString("\n")
	b.WriteString(p.row("Appropriate for level", p.verdict(a.Metrics.AppropriateForLevel)))
	b.WriteString("\n")

	p.section(&b, "Strengths", a.Strengths, p.ok.Render("+"))
	p.section(&b, "Areas for improvement", a.ImprovementAreas, p.bad.Render("!"))
	p.section(&b, "Recommendations", a.Recommendations, "-")

	if len(a.Feedback) > 0 {
		b.WriteString(p.heading.Render("Feedback"))
		b.WriteString("\n")
		b.WriteString(p.para.Render(strings.Join(a.Feedback, " ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *printer) section(b *strings.Builder, title string, items []string, bullet string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(p.heading.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(bullet + " " + item + "\n")
	}
}

func (p *printer) interpretation(res interpretation) string {
	return p.row(fmt.Sprintf("%g (%s)", res.Score, res.Metric), p.ok.Render(res.Label))
}
