package chapters

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"m4bforge/internal/media/tags"
	"m4bforge/internal/rename"
)

// Chapter is one entry in the final book's chapter list. Start and End are
// offsets from the beginning of the concatenated output.
type Chapter struct {
	Index int
	Title string
	Start time.Duration
	End   time.Duration
}

// Plan holds the ordered chapters for a book along with the probed inputs
// that produced them.
type Plan struct {
	Chapters []Chapter
	Inputs   []tags.Info
	Total    time.Duration
}

// probeConcurrency bounds parallel ffprobe invocations.
const probeConcurrency = 4

// ProbeFunc inspects one audio file. It exists so tests can supply canned
// results instead of shelling out.
type ProbeFunc func(ctx context.Context, path string) (tags.Info, error)

// Builder assembles chapter plans from audio files.
type Builder struct {
	Probe ProbeFunc
	// TitlePattern renames chapters; a numbering group like {nn} expands
	// per chapter. Empty means keep the source title.
	TitlePattern string
	// UseTagTitles keeps embedded track titles instead of the pattern.
	UseTagTitles bool
	// Rules rewrites source-derived titles before they land in the plan.
	Rules *rename.Pipeline
}

// Build probes every file concurrently, then assembles chapters in the
// original file order with cumulative start offsets.
func (b Builder) Build(ctx context.Context, files []string) (Plan, error) {
	if len(files) == 0 {
		return Plan{}, fmt.Errorf("no input files for chapter plan")
	}
	if b.Probe == nil {
		return Plan{}, fmt.Errorf("chapter builder requires a probe function")
	}

	infos := make([]tags.Info, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(probeConcurrency)
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			info, err := b.Probe(groupCtx, file)
			if err != nil {
				return fmt.Errorf("probe %q: %w", file, err)
			}
			infos[i] = info
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Plan{}, err
	}

	plan := Plan{Inputs: infos, Chapters: make([]Chapter, 0, len(infos))}
	var offset time.Duration
	for i, info := range infos {
		if info.Duration <= 0 {
			return Plan{}, fmt.Errorf("file %q has no usable duration", info.Path)
		}
		chapter := Chapter{
			Index: i + 1,
			Title: b.title(info, i),
			Start: offset,
			End:   offset + info.Duration,
		}
		plan.Chapters = append(plan.Chapters, chapter)
		offset = chapter.End
	}
	plan.Total = offset
	return plan, nil
}

// title picks the chapter name for the zero-based input index. Rewrite
// rules only apply to source-derived titles; a numbering pattern already
// produces the final name.
func (b Builder) title(info tags.Info, index int) string {
	if b.UseTagTitles || b.TitlePattern == "" {
		title := info.TitleOrStem()
		if b.Rules != nil {
			title = b.Rules.Apply(title, index)
		}
		return title
	}
	return rename.Render(b.TitlePattern, index)
}
