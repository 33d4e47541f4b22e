package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/script"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// ErrInvalidScript is returned for uploads and fills that cannot be used.
var ErrInvalidScript = errors.New("invalid script")

// ScriptService lists, uploads and renders reply scripts.
type ScriptService struct {
	scripts repository.ScriptRepository
	logger  *zap.Logger
}

// NewScriptService constructs the service.
func NewScriptService(scripts repository.ScriptRepository, logger *zap.Logger) *ScriptService {
	return &ScriptService{scripts: scripts, logger: logger}
}

// List returns scripts newest first.
func (s *ScriptService) List(ctx context.Context) ([]domain.Script, error) {
	scripts, err := s.scripts.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scripts: %w", err)
	}
	return scripts, nil
}

// Upload stores a .txt file as a script named after the file.
func (s *ScriptService) Upload(ctx context.Context, filename string, content []byte) (*domain.Script, error) {
	name, err := script.NameFromFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", ErrInvalidScript, filename)
	}
	created := &domain.Script{Name: name, RawTemplate: string(content)}
	if err := s.scripts.Insert(ctx, created); err != nil {
		s.logger.Warn("upload script", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("script uploaded", zap.String("script_id", created.ID), zap.String("name", name))
	return created, nil
}

// Open returns the script ready to fill with its default values.
func (s *ScriptService) Open(ctx context.Context, id string) (view.ScriptFill, error) {
	picked, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return view.ScriptFill{}, err
	}
	return view.PickScript(view.ScriptPicker{}, *picked)
}

// Render fills the script's placeholders and renders the text. Placeholders
// without a value keep their default.
func (s *ScriptService) Render(ctx context.Context, id string, values map[int]string) (view.ScriptResult, error) {
	fill, err := s.Open(ctx, id)
	if err != nil {
		return view.ScriptResult{}, err
	}
	indexes := make([]int, 0, len(values))
	for index := range values {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	for _, index := range indexes {
		if fill, err = fill.Fill(index, values[index]); err != nil {
			return view.ScriptResult{}, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
	}
	return view.Generate(fill)
}
