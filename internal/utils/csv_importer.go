package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/leaderboard-backend/internal/services"
)

// ImportResult summarises a CSV import.
type ImportResult struct {
	TotalRows    int      `json:"totalRows"`
	UsersCreated int      `json:"usersCreated"`
	Errors       []string `json:"errors"`
}

// CSVUserImporter creates users from CSV rows of name, points and picture.
type CSVUserImporter struct {
	registrar services.Registrar
}

// NewCSVUserImporter creates a new CSVUserImporter
func NewCSVUserImporter(registrar services.Registrar) *CSVUserImporter {
	return &CSVUserImporter{registrar: registrar}
}

// ImportUsers reads a header row and then one user per row. Bad rows are
// recorded in the result and skipped; only an unreadable header or a failed
// store write aborts the import.
func (i *CSVUserImporter) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, []string{"name", "Name", "Username", "User"})
	pointsIdx := findColumnIndex(header, []string{"totalPoints", "Total Points", "Points"})
	picIdx := findColumnIndex(header, []string{"profilePic", "Profile Pic", "Avatar", "Image"})

	if nameIdx == -1 {
		return nil, errors.New("name column not found in CSV")
	}

	result := &ImportResult{Errors: []string{}}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error reading row: %v", err))
			continue
		}

		result.TotalRows++

		input := services.AddUserInput{Name: column(row, nameIdx)}
		if input.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: No name found", result.TotalRows))
			continue
		}

		if raw := column(row, pointsIdx); raw != "" {
			points, err := strconv.Atoi(raw)
			if err != nil || points < 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid points: %s", result.TotalRows, raw))
				continue
			}
			input.TotalPoints = points
		}
		input.ProfilePic = column(row, picIdx)

		if _, err := i.registrar.AddUser(ctx, input); err != nil {
			return result, fmt.Errorf("row %d: failed to create user: %w", result.TotalRows, err)
		}
		result.UsersCreated++
	}

	return result, nil
}

// Helper functions

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
