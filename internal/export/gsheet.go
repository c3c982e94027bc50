// Package export pushes final marks to Google Sheets on a cron schedule, one
// spreadsheet per configured course.
package export

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type GSheetExporter struct {
	config        *app.Config
	store         store.DocStore
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

// NewGSheetExporter schedules one export job per [gsheet] config entry, keyed
// by course code, and starts the scheduler.
func NewGSheetExporter(config *app.Config, docStore store.DocStore) (*GSheetExporter, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	exporter := &GSheetExporter{
		config:    config,
		store:     docStore,
		scheduler: scheduler,
	}

	for courseCode, configs := range config.GSheet {
		for _, cfg := range configs {
			svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
			if err != nil {
				return nil, fmt.Errorf("failed to create sheets service: %w", err)
			}
			exporter.sheetsService = svc

			code := courseCode
			entry := cfg
			_, err = scheduler.Cron(cfg.Schedule).Do(func() {
				if err := exporter.Export(code, &entry); err != nil {
					logger.Error.Printf("Export failed for %s: %v", code, err)
				}
			})
			if err != nil {
				return nil, fmt.Errorf("failed to schedule export: %w", err)
			}
		}
	}

	scheduler.StartAsync()
	return exporter, nil
}

// Export writes each enrolled student's total final mark next to their
// username row, then stamps the sheet with an update marker.
func (e *GSheetExporter) Export(courseCode string, cfg *app.GSheetConfig) error {
	totals, err := e.totalMarks(courseCode)
	if err != nil {
		return fmt.Errorf("failed to compute marks: %w", err)
	}

	readRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.UsernamesRange)
	resp, err := e.sheetsService.Spreadsheets.Values.Get(cfg.SheetID, readRange).Do()
	if err != nil {
		return fmt.Errorf("failed to read usernames: %w", err)
	}

	firstRow := rangeStartRow(cfg.UsernamesRange)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		username, ok := row[0].(string)
		if !ok || username == "" {
			continue
		}
		total, graded := totals[username]
		if !graded {
			continue
		}

		updateRange := fmt.Sprintf("%s!%s%d", cfg.SheetName, cfg.MarksColumn, firstRow+i)
		_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
			&sheets.ValueRange{Values: [][]interface{}{{total}}}).ValueInputOption("RAW").Do()
		if err != nil {
			return fmt.Errorf("failed to update cell: %w", err)
		}
	}

	emoji := "✨"
	if len(e.config.EmojiVariants) > 0 {
		emoji = e.config.EmojiVariants[rand.Intn(len(e.config.EmojiVariants))]
	}
	timestamp := fmt.Sprintf("UPD: %s %s", time.Now().Format("2 January 15:04"), emoji)

	updateRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Do()

	return err
}

// totalMarks sums final marks per username across every graded slot in the
// course's sheets. Courses are matched by code, any term or section.
func (e *GSheetExporter) totalMarks(courseCode string) (map[string]int, error) {
	db, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	courseIDs := map[int]bool{}
	for _, c := range db.Courses {
		if strings.EqualFold(c.Code, courseCode) {
			courseIDs[c.ID] = true
		}
	}

	sheetIDs := map[int]bool{}
	for _, s := range db.Sheets {
		if courseIDs[s.CourseID] {
			sheetIDs[s.ID] = true
		}
	}

	slotIDs := map[int]bool{}
	for _, slot := range db.Slots {
		if sheetIDs[slot.SheetID] {
			slotIDs[slot.ID] = true
		}
	}

	totals := map[string]int{}
	for _, grade := range db.Grades {
		if !slotIDs[grade.SlotID] {
			continue
		}
		member := db.MemberByID(grade.MemberID)
		if member == nil {
			continue
		}
		totals[member.Username] += grade.FinalMark
	}
	return totals, nil
}

// rangeStartRow extracts the first row number from an A1 range like "B4:B100".
func rangeStartRow(a1 string) int {
	digits := ""
	for _, r := range a1 {
		if r >= '0' && r <= '9' {
			digits += string(r)
		} else if digits != "" {
			break
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 1
	}
	return row
}
