// Package drive adapts the Google Drive, Docs and Sheets APIs to the
// file store port: recursive corpus listing, text extraction and the
// two append destinations the writing tool targets.
package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/albertobertheau/lola-agent-app/internal/connectors/google"
	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize is the maximum size for exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// listPageSize is the Drive listing page size.
const listPageSize = 100

// listFields restricts listing responses to the fields the store uses.
const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime)"

// FileStore implements the file store port over Google Drive, with
// Docs and Sheets services for the append operations.
type FileStore struct {
	drive   *drive.Service
	docs    *docs.Service
	sheets  *sheets.Service
	limiter *google.RateLimiter
}

// Interface guard.
var _ driven.FileStore = (*FileStore)(nil)

// NewFileStore creates a file store over the given API services.
func NewFileStore(driveSvc *drive.Service, docsSvc *docs.Service, sheetsSvc *sheets.Service) *FileStore {
	return &FileStore{
		drive:   driveSvc,
		docs:    docsSvc,
		sheets:  sheetsSvc,
		limiter: google.NewRateLimiter(google.ServiceDrive),
	}
}

// ListRecursive walks the folder tree breadth-first and returns every
// non-folder, non-trashed file. A non-zero modifiedAfter narrows the
// listing to files modified strictly after it.
func (s *FileStore) ListRecursive(ctx context.Context, rootID string, modifiedAfter time.Time) ([]domain.Document, error) {
	var documents []domain.Document
	queue := []string{rootID}

	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]

		// Sub-folders are always traversed: a folder's own modification
		// time says nothing about its contents.
		subFolders, err := s.listFolder(ctx, folderID, time.Time{}, true)
		if err != nil {
			return nil, fmt.Errorf("list folders under %s: %w", folderID, err)
		}
		for _, f := range subFolders {
			queue = append(queue, f.FileID)
		}

		files, err := s.listFolder(ctx, folderID, modifiedAfter, false)
		if err != nil {
			return nil, fmt.Errorf("list files under %s: %w", folderID, err)
		}
		documents = append(documents, files...)
	}

	logger.Debug("Drive listing: %d files under %s", len(documents), rootID)
	return documents, nil
}

// listFolder returns one folder's direct children, either only
// sub-folders or only regular files.
func (s *FileStore) listFolder(ctx context.Context, folderID string, modifiedAfter time.Time, foldersOnly bool) ([]domain.Document, error) {
	query := BuildListQuery(folderID, modifiedAfter, foldersOnly)

	var out []domain.Document
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.drive.Files.List().
			Q(query).
			Fields(listFields).
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			if google.IsRateLimited(err) {
				s.limiter.RecordRateLimitError(0)
			}
			return nil, google.WrapError(err)
		}

		for _, f := range page.Files {
			out = append(out, fileToDocument(f))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			return out, nil
		}
	}
}

// BuildListQuery composes the Drive query string for one folder.
func BuildListQuery(folderID string, modifiedAfter time.Time, foldersOnly bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' in parents and trashed = false", folderID)
	if foldersOnly {
		fmt.Fprintf(&b, " and mimeType = '%s'", MimeTypeFolder)
	} else {
		fmt.Fprintf(&b, " and mimeType != '%s'", MimeTypeFolder)
		if !modifiedAfter.IsZero() {
			fmt.Fprintf(&b, " and modifiedTime > '%s'", modifiedAfter.UTC().Format(time.RFC3339))
		}
	}
	return b.String()
}

// fileToDocument converts a Drive file to a domain document. An
// unparseable modification time is left zero rather than failing the
// listing.
func fileToDocument(f *drive.File) domain.Document {
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		logger.Warn("Unparseable modifiedTime %q on %s", f.ModifiedTime, f.Name)
		modified = time.Time{}
	}
	return domain.Document{
		FileID:       f.Id,
		Name:         f.Name,
		MIMEType:     f.MimeType,
		ModifiedTime: modified,
	}
}

// FetchContent returns a file's plain-text content. Google Workspace
// formats are exported; regular text files are downloaded with a size
// cap; everything else is unsupported.
func (s *FileStore) FetchContent(ctx context.Context, doc domain.Document) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	switch doc.MIMEType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return s.export(ctx, doc.FileID, ExportMimeText)
	case MimeTypeGoogleSheet:
		return s.export(ctx, doc.FileID, ExportMimeCSV)
	}

	if !IsTextMIME(doc.MIMEType) {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, doc.Name, doc.MIMEType)
	}

	resp, err := s.drive.Files.Get(doc.FileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("download %s: %w", doc.Name, google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", doc.Name, err)
	}
	return string(data), nil
}

// export converts a Google Workspace file to the given format.
func (s *FileStore) export(ctx context.Context, fileID, exportMime string) (string, error) {
	resp, err := s.drive.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export %s: %w", fileID, google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}
	return string(data), nil
}

// AppendText appends free text to the end of a Google Doc. The text is
// preceded by a newline so entries stay visually separated.
func (s *FileStore) AppendText(ctx context.Context, docID, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Text:                 "\n" + text,
				EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
			},
		}},
	}

	if _, err := s.docs.Documents.BatchUpdate(docID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("append to document %s: %w", docID, google.WrapError(err))
	}
	logger.Info("Appended %d characters to document %s", len(text), docID)
	return nil
}

// AppendRow appends an ordered row of values to a spreadsheet.
func (s *FileStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}

	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.sheets.Spreadsheets.Values.Append(sheetID, "A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", sheetID, google.WrapError(err))
	}
	logger.Info("Appended row of %d values to sheet %s", len(values), sheetID)
	return nil
}

// IsTextMIME checks if a MIME type is likely text content.
func IsTextMIME(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	textTypes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/rtf",
	}
	for _, t := range textTypes {
		if mimeType == t {
			return true
		}
	}
	return false
}
