package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/stage"
	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/utils"
)

const (
	defaultMaxLogLength = 200
	maxExtractedSectors = 3
)

//go:embed extract_prompt.md
var extractTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

type sectorNormalizer interface {
	Normalize(raw string) taxonomy.Sector
}

type stageResolver interface {
	Resolve(raw string) (int, bool)
}

// Extractor asks the model for sectors and stage and keeps only answers the
// engine can resolve.
type Extractor struct {
	generator contentGenerator
	sectors   sectorNormalizer
	stages    stageResolver
	system    string
	maxLogLen int
	logger    *zap.Logger
}

func NewExtractor(generator contentGenerator, sectors sectorNormalizer, stages stageResolver, maxLogLength int, log *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	names := make([]string, 0, len(taxonomy.Keys()))
	for _, k := range taxonomy.Keys() {
		names = append(names, k.String())
	}

	return &Extractor{
		generator: generator,
		sectors:   sectors,
		stages:    stages,
		system: render(extractTemplate, map[string]string{
			"SECTORS": strings.Join(names, ", "),
			"STAGES":  strings.Join(stage.Names(), ", "),
		}),
		maxLogLen: maxLogLength,
		logger:    logger.WithFields(log),
	}
}

func (e *Extractor) Extract(ctx context.Context, s profile.StartupProfile) (*ai.Extraction, error) {
	if strings.TrimSpace(s.Description) == "" && s.Name == "" {
		return nil, errors.New("startup has neither name nor description")
	}

	payload, err := json.MarshalIndent(map[string]any{
		"name":        s.Name,
		"description": s.Description,
		"sectors":     s.Sectors,
		"stage":       s.Stage,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal startup payload: %w", err)
	}
	message := string(payload)

	log := logger.WithPair(e.logger, s.ID, "")
	log.Debug("gemini extraction request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, e.system, message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	extraction, err := e.parse(raw)
	if err != nil {
		return nil, err
	}
	extraction.Raw = raw
	return extraction, nil
}

func (e *Extractor) parse(raw string) (*ai.Extraction, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	out := &ai.Extraction{
		Confidence: coerceUnit(data["confidence"]),
		Reason:     coerceString(data["reason"]),
	}

	seen := make(map[string]struct{})
	for _, label := range coerceStrings(data["sectors"]) {
		sector := e.sectors.Normalize(label)
		if !sector.Canonical() {
			continue
		}
		name := sector.String()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out.Sectors = append(out.Sectors, name)
		if len(out.Sectors) == maxExtractedSectors {
			break
		}
	}

	if st := coerceString(data["stage"]); st != "" {
		if ordinal, ok := e.stages.Resolve(st); ok {
			out.Stage = stage.Name(ordinal)
		}
	}

	return out, nil
}
