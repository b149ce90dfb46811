// Package report renders practice history as a PDF.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/timer"
)

// Data is everything a report shows.
type Data struct {
	GeneratedAt time.Time
	Sessions    []models.Session
	Stats       models.SessionStats
}

// Load gathers report data from the store. limit <= 0 includes every session.
func Load(ctx context.Context, store database.SessionStore, limit int, now time.Time) (Data, error) {
	sessions, err := store.ListSessions(ctx, limit)
	if err != nil {
		return Data{}, fmt.Errorf("load sessions: %w", err)
	}
	stats, err := store.GetSessionStats(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("load stats: %w", err)
	}
	return Data{GeneratedAt: now, Sessions: sessions, Stats: stats}, nil
}

// WriteFile renders data into dir and returns the absolute path of the PDF.
func WriteFile(data Data, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("practice_report_%s.pdf", data.GeneratedAt.Format("2006-01-02_150405")))
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := Render(f, data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return filepath.Abs(filename)
}

// Render writes the PDF for data to w.
func Render(w io.Writer, data Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Speech Practice Report: %s", data.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(12)

	// Summary
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Sessions: %d    Completed: %d    Time spoken: %s",
		data.Stats.Total, data.Stats.Completed, clock(data.Stats.TotalSeconds)))
	pdf.Ln(6)
	for _, st := range models.SpeechTypes {
		pdf.Cell(0, 8, fmt.Sprintf("  %s: %d", st.Label(), data.Stats.ByType[st]))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Sessions
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Sessions")
	pdf.Ln(10)
	if len(data.Sessions) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "  - No sessions recorded.")
		pdf.Ln(8)
	} else {
		widths := []float64{38, 28, 24, 24, 28, 48}
		pdf.SetFont("Arial", "B", 10)
		for i, h := range []string{"Started", "Type", "Planned", "Spoken", "Outcome", "Thresholds"} {
			pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, s := range data.Sessions {
			th := timer.ThresholdsFor(s.SpeechType, s.PlannedSeconds)
			cells := []string{
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				s.SpeechType.Label(),
				clock(s.PlannedSeconds),
				clock(s.ElapsedSeconds),
				string(s.Outcome),
				fmt.Sprintf("%s / %s", clock(th.Green), clock(th.Orange)),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], 6, c, "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
			if s.Topic != nil {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr("    Topic: "+*s.Topic), "", "L", false)
				pdf.SetFont("Arial", "", 10)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
