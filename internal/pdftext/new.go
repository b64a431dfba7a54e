package pdftext

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
	"github.com/nguyentantai21042004/actaudit/pkg/executor"
)

type implNative struct {
	logger logger.Logger
}

type implPdftotext struct {
	binary   string
	executor executor.Executor
	logger   logger.Logger
}

// New returns the Extractor selected by cfg.Extractor.
func New(cfg config.PDFConfig, exec executor.Executor, log logger.Logger) (Extractor, error) {
	if log == nil {
		log = logger.NewNop()
	}
	switch cfg.Extractor {
	case "native", "":
		return &implNative{logger: log}, nil
	case "pdftotext":
		return &implPdftotext{binary: cfg.PdftotextPath, executor: exec, logger: log}, nil
	default:
		return nil, fmt.Errorf("unsupported pdf extractor %q", cfg.Extractor)
	}
}

// joinPages trims each page, drops empty ones and separates the rest with a
// blank line. The result is NFC-normalized so accented text compares cleanly.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p)
	}
	return norm.NFC.String(b.String())
}
