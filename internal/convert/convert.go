package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"m4bforge/internal/chapters"
	"m4bforge/internal/config"
	"m4bforge/internal/cover"
	"m4bforge/internal/fileutil"
	"m4bforge/internal/media/tags"
	"m4bforge/internal/mux"
	"m4bforge/internal/queue"
	"m4bforge/internal/rename"
	"m4bforge/internal/scan"
	"m4bforge/internal/services"
	"m4bforge/internal/textutil"
)

// BookMuxer abstracts the ffmpeg mux so tests can substitute a fake.
type BookMuxer interface {
	Run(ctx context.Context, req mux.Request, progress func(mux.ProgressUpdate)) error
}

// Runner drains the conversion queue: it probes inputs, muxes the book,
// and moves the result into the output directory.
type Runner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	muxer  BookMuxer
	prober chapters.ProbeFunc
	covers *cover.Fetcher
	rules  *rename.Pipeline
}

// Option configures a Runner.
type Option func(*Runner)

// WithMuxer replaces the ffmpeg muxer, mainly for tests.
func WithMuxer(m BookMuxer) Option {
	return func(r *Runner) {
		if m != nil {
			r.muxer = m
		}
	}
}

// WithProber replaces the ffprobe-backed prober, mainly for tests.
func WithProber(probe chapters.ProbeFunc) Option {
	return func(r *Runner) {
		if probe != nil {
			r.prober = probe
		}
	}
}

// WithRules applies title rewrite rules to tag-derived chapter names.
func WithRules(rules *rename.Pipeline) Option {
	return func(r *Runner) {
		r.rules = rules
	}
}

// WithCoverFetcher replaces the remote artwork fetcher.
func WithCoverFetcher(f *cover.Fetcher) Option {
	return func(r *Runner) {
		if f != nil {
			r.covers = f
		}
	}
}

// NewRunner builds a Runner bound to a queue store.
func NewRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	prober := tags.Prober{FFprobeBinary: cfg.FFprobeBinary()}
	runner := &Runner{
		cfg:    cfg,
		store:  store,
		logger: logger.With(slog.String("component", "convert")),
		muxer:  mux.New(mux.WithBinary(cfg.FFmpegBinary())),
		prober: prober.Probe,
		covers: cover.NewFetcher(nil),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// ProcessNext claims and converts the oldest pending job. It returns nil
// when the queue is empty. Failures are recorded on the item and returned.
func (r *Runner) ProcessNext(ctx context.Context) (*queue.Item, error) {
	item, err := r.store.NextPending(ctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if err := r.Process(ctx, item); err != nil {
		return item, err
	}
	return item, nil
}

// Run drains the queue until empty or the context is cancelled. It returns
// the number of completed jobs and the first hard error from the store;
// per-item failures are recorded on the item and do not stop the drain.
func (r *Runner) Run(ctx context.Context) (int, error) {
	completed := 0
	for {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		item, err := r.ProcessNext(ctx)
		if err != nil && item == nil {
			return completed, err
		}
		if item == nil {
			return completed, nil
		}
		if item.Status == queue.StatusCompleted {
			completed++
		}
	}
}

// Process runs one job through probing, converting, and organizing.
func (r *Runner) Process(ctx context.Context, item *queue.Item) error {
	logger := r.logger.With(slog.Int64("item_id", item.ID), slog.String("title", item.BookTitle))
	logger.Info("starting conversion", slog.String("input", item.InputDir))

	if err := r.process(ctx, item, logger); err != nil {
		item.SetFailed(err.Error())
		if updateErr := r.store.Update(ctx, item); updateErr != nil {
			logger.Error("failed to persist failure", slog.Any("error", updateErr))
		}
		logger.Error("conversion failed", slog.Any("error", err))
		return err
	}

	item.Status = queue.StatusCompleted
	item.ErrorMessage = ""
	item.SetProgress("Completed", "book ready", 100)
	if err := r.store.Update(ctx, item); err != nil {
		return err
	}
	logger.Info("conversion complete", slog.String("output", item.FinalFile))
	return nil
}

func (r *Runner) process(ctx context.Context, item *queue.Item, logger *slog.Logger) error {
	plan, err := r.probe(ctx, item)
	if err != nil {
		return err
	}
	logger.Info("chapter plan ready",
		slog.Int("chapters", len(plan.Chapters)),
		slog.Duration("total", plan.Total))

	stagedFile, stagingDir, err := r.convert(ctx, item, plan)
	if err != nil {
		return err
	}
	defer os.RemoveAll(stagingDir)

	return r.organize(ctx, item, stagedFile)
}

// probe moves the item to probing, scans the input directory, and builds
// the chapter plan.
func (r *Runner) probe(ctx context.Context, item *queue.Item) (chapters.Plan, error) {
	item.Status = queue.StatusProbing
	item.SetProgress("Probing", "inspecting audio files", 0)
	if err := r.store.Update(ctx, item); err != nil {
		return chapters.Plan{}, err
	}

	files, err := scan.Files(item.InputDir, false)
	if err != nil {
		return chapters.Plan{}, services.Wrap(services.ErrValidation, "convert", "probe", "scan input directory", err)
	}

	builder := chapters.Builder{
		Probe:        r.prober,
		TitlePattern: r.titlePattern(item),
		// A pattern set on the job overrides the tag-title preference.
		UseTagTitles: r.cfg.Chapters.UseTagTitles && strings.TrimSpace(item.Pattern) == "",
		Rules:        r.rules,
	}
	plan, err := builder.Build(ctx, files)
	if err != nil {
		return chapters.Plan{}, services.Wrap(services.ErrExternalTool, "convert", "probe", "build chapter plan", err)
	}
	return plan, nil
}

// convert stages the concat list, metadata document, and cover, then runs
// the mux. It returns the staged output path and the staging directory,
// which the caller removes once the file has been moved out.
func (r *Runner) convert(ctx context.Context, item *queue.Item, plan chapters.Plan) (string, string, error) {
	item.Status = queue.StatusConverting
	item.SetProgress("Converting", "muxing audio", 0)
	if err := r.store.Update(ctx, item); err != nil {
		return "", "", err
	}

	stagingDir := filepath.Join(r.cfg.Paths.StagingDir,
		textutil.SanitizeToken(item.BookTitle)+"-"+uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create staging dir: %w", err)
	}
	keepStaging := false
	defer func() {
		if !keepStaging {
			os.RemoveAll(stagingDir)
		}
	}()

	inputs := make([]string, len(plan.Inputs))
	for i, info := range plan.Inputs {
		inputs[i] = info.Path
	}
	concatPath := filepath.Join(stagingDir, "inputs.txt")
	if err := mux.WriteConcat(concatPath, inputs); err != nil {
		return "", "", err
	}

	meta := r.bookMeta(item)
	metadataPath := filepath.Join(stagingDir, "metadata.txt")
	if err := chapters.WriteMetadata(metadataPath, meta, plan); err != nil {
		return "", "", err
	}

	coverPath, err := r.stageCover(ctx, item, stagingDir)
	if err != nil {
		// Artwork is cosmetic; a book without a cover still converts.
		r.logger.Warn("cover unavailable", slog.Int64("item_id", item.ID), slog.Any("error", err))
		coverPath = ""
	}

	settings, err := r.settings(item, plan.Inputs)
	if err != nil {
		return "", "", err
	}

	stagedFile := filepath.Join(stagingDir, textutil.SanitizeFileName(item.BookTitle)+".m4b")
	req := mux.Request{
		ConcatPath:    concatPath,
		MetadataPath:  metadataPath,
		CoverPath:     coverPath,
		OutputPath:    stagedFile,
		Settings:      settings,
		TotalDuration: plan.Total,
	}

	lastPersist := time.Time{}
	onProgress := func(update mux.ProgressUpdate) {
		if update.Percent >= 0 {
			item.SetProgress("Converting", "muxing audio", update.Percent)
		}
		// Stats lines arrive many times per second; persist at most
		// every two seconds.
		if now := time.Now(); now.Sub(lastPersist) >= 2*time.Second {
			lastPersist = now
			if err := r.store.Update(ctx, item); err != nil {
				r.logger.Warn("failed to persist progress", slog.Any("error", err))
			}
		}
	}
	if err := r.muxer.Run(ctx, req, onProgress); err != nil {
		return "", "", err
	}
	keepStaging = true
	return stagedFile, stagingDir, nil
}

// organize moves the staged book into the output directory, suffixing the
// name when a previous conversion already claimed it.
func (r *Runner) organize(ctx context.Context, item *queue.Item, stagedFile string) error {
	item.Status = queue.StatusOrganizing
	item.SetProgress("Organizing", "moving into library", 95)
	if err := r.store.Update(ctx, item); err != nil {
		return err
	}

	target := strings.TrimSpace(item.OutputFile)
	if target == "" {
		target = filepath.Join(r.cfg.Paths.OutputDir, filepath.Base(stagedFile))
	}
	target, err := resolveCollision(target)
	if err != nil {
		return err
	}
	if err := fileutil.MoveFile(stagedFile, target); err != nil {
		return services.Wrap(services.ErrTransient, "convert", "organize", "move book into library", err)
	}
	item.FinalFile = target
	return nil
}

func (r *Runner) titlePattern(item *queue.Item) string {
	if pattern := strings.TrimSpace(item.Pattern); pattern != "" {
		return pattern
	}
	return r.cfg.Chapters.TitlePattern
}

func (r *Runner) settings(item *queue.Item, inputs []tags.Info) (mux.Settings, error) {
	settings := mux.SettingsFromConfig(r.cfg)
	if raw := strings.TrimSpace(item.SettingsJSON); raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return mux.Settings{}, services.Wrap(services.ErrValidation, "convert", "settings",
				"decode job settings", err)
		}
	}
	return settings.Resolve(inputs)
}

// bookMeta assembles container tags from the stored lookup result, falling
// back to the book title alone.
func (r *Runner) bookMeta(item *queue.Item) chapters.BookMeta {
	meta := chapters.BookMeta{Title: item.BookTitle}
	raw := strings.TrimSpace(item.MetadataJSON)
	if raw == "" {
		return meta
	}
	var stored storedMetadata
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("ignoring malformed job metadata", slog.Int64("item_id", item.ID), slog.Any("error", err))
		return meta
	}
	if stored.Title != "" {
		meta.Title = stored.Title
		meta.Album = stored.Title
	}
	if len(stored.Authors) > 0 {
		meta.Artist = strings.Join(stored.Authors, ", ")
	}
	if len(stored.Categories) > 0 {
		meta.Genre = stored.Categories[0]
	}
	if len(stored.PublishedDate) >= 4 {
		meta.Year = stored.PublishedDate[:4]
	}
	return meta
}

// storedMetadata mirrors the books.Metadata JSON persisted on queue items.
type storedMetadata struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Categories    []string `json:"categories"`
	PublishedDate string   `json:"published_date"`
	CoverURL      string   `json:"cover_url"`
}

// stageCover resolves artwork in priority order: an explicit job cover, a
// conventional file next to the inputs, then the lookup thumbnail.
func (r *Runner) stageCover(ctx context.Context, item *queue.Item, stagingDir string) (string, error) {
	if path := strings.TrimSpace(item.CoverPath); path != "" {
		data, err := cover.Load(path)
		if err != nil {
			return "", err
		}
		return cover.WriteStaged(stagingDir, data)
	}
	if path := cover.FindLocal(item.InputDir); path != "" {
		data, err := cover.Load(path)
		if err != nil {
			return "", err
		}
		return cover.WriteStaged(stagingDir, data)
	}
	raw := strings.TrimSpace(item.MetadataJSON)
	if raw == "" {
		return "", nil
	}
	var stored storedMetadata
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.CoverURL == "" {
		return "", nil
	}
	data, err := r.covers.Fetch(ctx, stored.CoverURL)
	if err != nil {
		return "", err
	}
	return cover.WriteStaged(stagingDir, data)
}

// resolveCollision returns target, or target with a numeric suffix when a
// file already sits at that path.
func resolveCollision(target string) (string, error) {
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		return target, nil
	} else if err != nil {
		return "", fmt.Errorf("check output path %q: %w", target, err)
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("check output path %q: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("no free output name for %q", target)
}
