// package formatter writes the fetch output document and exports it to other formats (CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Export formats accepted by [WriteExport]
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// MarshalDocument encodes doc as JSON indented with two spaces.
func MarshalDocument(doc *models.OutputDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteDocument writes doc to path, replacing any previous file and creating the parent directory.
func WriteDocument(path string, doc *models.OutputDocument) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	if err := shared.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// ReadDocument reads an output document written by [WriteDocument].
func ReadDocument(path string) (*models.OutputDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	var doc models.OutputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, path, err)
	}
	return &doc, nil
}

// ExportToCSV converts the videos of doc to CSV with columns: ID, Title, Artist, Artist ID, Duration,
// Explicit, Popularity, URL, Image
func ExportToCSV(doc *models.OutputDocument) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Artist ID", "Duration", "Explicit", "Popularity", "URL", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range doc.Videos {
		record := []string{
			strconv.FormatInt(v.VideoID, 10),
			v.Title,
			v.Artist,
			optionalID(v.ArtistID),
			strconv.Itoa(v.Duration),
			strconv.FormatBool(v.Explicit),
			strconv.Itoa(v.Popularity),
			v.TidalURL,
			optionalString(v.ImageURL),
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

// ExportToMarkdown converts doc to a Markdown list of videos in discovery order
func ExportToMarkdown(doc *models.OutputDocument) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# TIDAL Videos\n\n")
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "**Generated**: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", doc.TrackCount)
	fmt.Fprintf(&buf, "**Artists**: %d\n", doc.ArtistCount)
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", doc.VideoCount)

	buf.WriteString("## Videos\n\n")
	for i, v := range doc.Videos {
		explicit := ""
		if v.Explicit {
			explicit = " (explicit)"
		}
		fmt.Fprintf(&buf, "%d. [%s - %s](%s)%s [%s]\n", i+1, v.Artist, escapeMarkdown(v.Title), v.TidalURL, explicit, FormatDuration(v.Duration))
	}

	return buf.Bytes(), nil
}

// WriteExport renders doc in format and writes it to path.
func WriteExport(doc *models.OutputDocument, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(doc)
	case FormatMarkdown, "md":
		data, err = ExportToMarkdown(doc)
	default:
		return fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if err := shared.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// FormatDuration renders seconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
