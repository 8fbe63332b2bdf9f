package reports

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/bmi-planner/internal/chat"
	"github.com/fdg312/bmi-planner/internal/mealplans"
	"github.com/fdg312/bmi-planner/internal/nutrition"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/jung-kurt/gofpdf"
)

var ErrEmptyConversation = errors.New("conversation is empty")

const (
	chatHeaderLayout = "2006-01-02 15:04"
	chatRule         = "----------------------------------------------------------------"
)

// PlanText is the exported plan: the personalized plan followed by the meal suggestions.
func PlanText(p profiles.HealthProfile) string {
	plan := nutrition.RenderPlan(p, nutrition.NewPlan(p))
	meals := mealplans.RenderMeals(p.Diet, p.Goal)
	return strings.TrimSpace(plan + "\n\n" + meals)
}

// ChatText renders the transcript with a timestamped header.
func ChatText(turns []chat.Turn, at time.Time) (string, error) {
	if len(turns) == 0 {
		return "", ErrEmptyConversation
	}

	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		role := "[BOT]"
		if t.Role == chat.RoleUser {
			role = "[USER]"
		}
		blocks = append(blocks, fmt.Sprintf("%s: %s", role, strings.TrimSpace(t.Text)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Health Chatbot Conversation History (%s)\n", at.Format(chatHeaderLayout))
	b.WriteString(chatRule + "\n\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	return b.String(), nil
}

// Render encodes text in the requested format.
func Render(format, title, text string) ([]byte, error) {
	switch format {
	case FormatTXT:
		return []byte(text), nil
	case FormatPDF:
		return generatePDF(title, text)
	default:
		return nil, ErrInvalidFormat
	}
}

// generatePDF lays the text out line by line with a core font.
// Bold markers are dropped and runes outside cp1252 are skipped.
func generatePDF(title, text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 8, tr(pdfSafe(title)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	for _, line := range strings.Split(text, "\n") {
		line = pdfSafe(line)
		if strings.TrimSpace(line) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// cp1252 punctuation above U+2000 that core fonts can draw.
var pdfPunctuation = map[rune]bool{
	'–': true, '—': true, '‘': true, '’': true, '“': true, '”': true,
	'•': true, '…': true, '€': true, '™': true,
}

func pdfSafe(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.Map(func(r rune) rune {
		if r >= 0x2000 && !pdfPunctuation[r] {
			return -1
		}
		return r
	}, s)
}
