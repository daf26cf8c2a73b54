package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
	"github.com/yanqian/summarizer-backend/pkg/metrics"
)

// Config controls caching of rendered payloads.
type Config struct {
	CacheTTL time.Duration
}

// Payload is a rendered export ready to be streamed to the client.
type Payload struct {
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	Data        []byte `json:"data"`
}

// Service renders summaries into downloadable documents.
type Service interface {
	Export(ctx context.Context, userID, id int64, format string) (Payload, error)
	Formats() []Format
}

// SummaryReader loads a summary owned by the caller.
type SummaryReader interface {
	Get(ctx context.Context, userID, id int64) (summarizer.Summary, error)
}

// PDFRenderer prints an HTML page to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// DOCXRenderer writes a WordprocessingML package.
type DOCXRenderer interface {
	RenderDOCX(ctx context.Context, doc Document) ([]byte, error)
}

// Cache stores rendered payloads.
type Cache interface {
	Get(ctx context.Context, key string) (Payload, bool, error)
	Set(ctx context.Context, key string, payload Payload, ttl time.Duration) error
}

// Archive keeps a durable copy of every rendered export.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type service struct {
	cfg      Config
	reader   SummaryReader
	pdf      PDFRenderer
	docx     DOCXRenderer
	cache    Cache
	archive  Archive
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewService wires the export workflow. cache and archive may be nil.
func NewService(cfg Config, reader SummaryReader, pdf PDFRenderer, docx DOCXRenderer, cache Cache, archive Archive, recorder metrics.Recorder, logger *slog.Logger) Service {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &service{
		cfg:      cfg,
		reader:   reader,
		pdf:      pdf,
		docx:     docx,
		cache:    cache,
		archive:  archive,
		recorder: recorder,
		logger:   logger.With("component", "export.service"),
	}
}

func (s *service) Formats() []Format {
	return Formats()
}

func (s *service) Export(ctx context.Context, userID, id int64, format string) (Payload, error) {
	if format == "" {
		format = DefaultFormat
	}
	record, err := s.reader.Get(ctx, userID, id)
	if err != nil {
		return Payload{}, err
	}
	f, ok := lookupFormat(format)
	if !ok {
		return Payload{}, apperrors.Wrap(apperrors.CodeUnsupportedFormat, "Unsupported format", nil)
	}

	key := cacheKey(record, f)
	if payload, hit := s.cached(ctx, key); hit {
		s.recorder.ObserveExport(f.Extension, true)
		return payload, nil
	}

	data, err := s.render(ctx, f, newDocument(record))
	if err != nil {
		return Payload{}, err
	}
	payload := Payload{
		ContentType: f.MimeType,
		Filename:    fmt.Sprintf("summary_%d.%s", record.ID, f.Extension),
		Data:        data,
	}
	s.recorder.ObserveExport(f.Extension, false)
	s.store(ctx, key, payload)
	s.archiveCopy(ctx, userID, record, f, payload)
	return payload, nil
}

func (s *service) render(ctx context.Context, f Format, doc Document) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f.Extension {
	case FormatPDF:
		data, err = s.pdf.RenderPDF(ctx, BuildHTML(doc))
	case FormatDOCX:
		data, err = s.docx.RenderDOCX(ctx, doc)
	case FormatJSON:
		data, err = buildJSON(doc)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExport, fmt.Sprintf("failed to render %s export", f.Extension), err)
	}
	return data, nil
}

func (s *service) cached(ctx context.Context, key string) (Payload, bool) {
	if s.cache == nil {
		return Payload{}, false
	}
	payload, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("export cache lookup failed", "key", key, "error", err)
		return Payload{}, false
	}
	return payload, found
}

func (s *service) store(ctx context.Context, key string, payload Payload) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("export cache store failed", "key", key, "error", err)
	}
}

func (s *service) archiveCopy(ctx context.Context, userID int64, record summarizer.Summary, f Format, payload Payload) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("%d/summary_%d_%d.%s", userID, record.ID, record.ModifiedAt.UnixNano(), f.Extension)
	if err := s.archive.Put(ctx, key, payload.Data, payload.ContentType); err != nil {
		s.logger.Warn("export archive failed", "key", key, "error", err)
	}
}

// cacheKey changes whenever the record is modified, so stale renders are
// never served.
func cacheKey(record summarizer.Summary, f Format) string {
	return fmt.Sprintf("export:%d:%d:%s", record.ID, record.ModifiedAt.UnixNano(), f.Extension)
}
