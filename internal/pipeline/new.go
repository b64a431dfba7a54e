package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/actaudit/internal/analysis"
	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/llm"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
	"github.com/nguyentantai21042004/actaudit/internal/pdftext"
	"github.com/nguyentantai21042004/actaudit/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	transcriber transcriber.Transcriber
	analyzer    analysis.Analyzer
	extractor   pdftext.Extractor
	client      llm.Client
	logger      logger.Logger
	now         func() time.Time
}

// Deps are the stage implementations a Processor sequences.
type Deps struct {
	Transcriber transcriber.Transcriber
	Analyzer    analysis.Analyzer
	Extractor   pdftext.Extractor
	Client      llm.Client
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	if log == nil {
		log = logger.NewNop()
	}
	return &implProcessor{
		cfg:         cfg,
		transcriber: deps.Transcriber,
		analyzer:    deps.Analyzer,
		extractor:   deps.Extractor,
		client:      deps.Client,
		logger:      log,
		now:         time.Now,
	}
}
