// package formatter provides functions to export song lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/shared"
)

// ExportToCSV converts a FavoritesExport to CSV format with columns: ID, Title, Artist, Genre, Year, Duration, FileName
func ExportToCSV(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Year", "Duration", "FileName"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.Genre,
			strconv.Itoa(song.Year),
			strconv.FormatFloat(song.Duration, 'f', -1, 64),
			song.FileName,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FavoritesExport to Markdown format
func ExportToMarkdown(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Favorites of %s\n\n", export.Username))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(export.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		duration := shared.FormatDuration(int(song.Duration))
		genrePart := ""
		if song.Genre != "" {
			genrePart = fmt.Sprintf(" (%s)", song.Genre)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, genrePart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format
func ExportToText(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", export.Username))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the export metadata (without songs)
func ToMetadataJSON(export *models.FavoritesExport) ([]byte, error) {
	metadata := map[string]any{
		"username": export.Username,
		"count":    len(export.Songs),
	}
	return shared.MarshalJSON(metadata, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport exports favorites to CSV format with an accompanying metadata JSON file.
//
// Defaults to the username as the base filename & creates {base}_favorites.csv and {base}_metadata.json
func WriteCSVExport(export *models.FavoritesExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Username
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_favorites.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SongsFile:    songsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteServerCSV writes the server-rendered favorites CSV document as-is.
//
// Defaults to {username}_favorites.csv as the filename.
func WriteServerCSV(username string, data []byte, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_favorites.csv", username)
	}

	if len(data) == 0 {
		return "", fmt.Errorf("empty CSV document")
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports favorites to plain text format.
//
// Defaults to {username}_favorites.txt as the filename.
func WriteTextExport(export *models.FavoritesExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_favorites.txt", export.Username)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownExport exports favorites to Markdown format.
//
// Defaults to {username}_favorites.md as the filename.
func WriteMarkdownExport(export *models.FavoritesExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_favorites.md", export.Username)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}
