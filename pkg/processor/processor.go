// Package processor implements the core dispatcher that dequeues
// QueueJob rows and runs the item-level or monolithic summarization
// path against them (spec.md §4.5). It is a queue.JobHandler: the queue
// package itself never inspects job_type.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/extract"
	"github.com/civicsync/ingest/pkg/llmorch"
	"github.com/civicsync/ingest/pkg/packetfetch"
	"github.com/civicsync/ingest/pkg/repo"
)

// Repo is the slice of pkg/repo.Repo the Processor needs, defined here
// per Go's consumer-side interface convention. Satisfied directly by
// *repo.Repo.
type Repo interface {
	MeetingForProcessing(ctx context.Context, meetingID string) (repo.MeetingView, error)
	MarkMeetingProcessing(ctx context.Context, meetingID string) error
	ItemsNeedingSummary(ctx context.Context, meetingID string) ([]repo.ItemView, error)
	MatterCacheHit(ctx context.Context, matterID, itemAttachmentHash string) (repo.MatterCacheHit, error)
	ApplyMatterCacheHit(ctx context.Context, itemID, summary string, topics []string) error
	MarkItemNoAttachments(ctx context.Context, itemID string) error
	SaveItemSummary(ctx context.Context, itemID, matterID, attachmentHash, summary string, topics []string) error
	MarkItemFailed(ctx context.Context, itemID, errMsg string) error
	FinalizeItemLevelMeeting(ctx context.Context, meetingID string, elapsedMS int) error
	FinalizeMonolithicMeeting(ctx context.Context, meetingID, summary string, elapsedMS int) error
	MarkMeetingFailed(ctx context.Context, meetingID string) error
}

// Downloader fetches packet/attachment bytes. Satisfied by
// *packetfetch.Fetcher.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extractor pulls plain text out of downloaded packet bytes. Satisfied
// by *extract.PDFExtractor.
type Extractor interface {
	Extract(ctx context.Context, url string, data []byte) (extract.Result, error)
}

// Summarizer is the LLM Orchestrator surface the Processor drives.
// Satisfied by *llmorch.Orchestrator.
type Summarizer interface {
	SummarizeItem(ctx context.Context, req llmorch.ItemRequest) (llmorch.ItemSummary, error)
	SummarizeItemsBatch(ctx context.Context, sharedContext string, requests []llmorch.ItemRequest) <-chan llmorch.BatchChunkResult
	SummarizeMonolithic(ctx context.Context, packetText string, pageCount int) (string, error)
}

// Processor implements queue.JobHandler, dispatching on job.JobType.
type Processor struct {
	repo         Repo
	downloader   Downloader
	extractor    Extractor
	orchestrator Summarizer
	cache        packetfetch.CacheRepo
	logger       *slog.Logger
}

// New builds a Processor. cache may be nil; processing-cache bookkeeping
// is then skipped.
func New(r Repo, downloader Downloader, extractor Extractor, orchestrator Summarizer, cache packetfetch.CacheRepo) *Processor {
	return &Processor{
		repo:         r,
		downloader:   downloader,
		extractor:    extractor,
		orchestrator: orchestrator,
		cache:        cache,
		logger:       slog.Default(),
	}
}

// Handle implements queue.JobHandler. A non-nil error here means an
// infrastructure failure (a DB write failed); the queue package retries
// it with backoff. Domain failures — a PDF that won't extract, an LLM
// call that exhausts its retry budget — are recorded on the affected
// item/meeting and reported as a nil error: spec.md §4.5 says a failed
// item "will be retried next sync if its attachment hash has not
// changed," meaning recovery is the Fetcher's next enqueue, not the
// queue's own backoff/dead-letter machinery re-running this job.
func (p *Processor) Handle(ctx context.Context, job *ent.QueueJob) error {
	if job.MeetingID == nil || *job.MeetingID == "" {
		return fmt.Errorf("job %d has no meeting_id", job.ID)
	}
	meetingID := *job.MeetingID

	if err := p.repo.MarkMeetingProcessing(ctx, meetingID); err != nil {
		return err
	}

	view, err := p.repo.MeetingForProcessing(ctx, meetingID)
	if err != nil {
		return err
	}

	switch job.JobType {
	case "monolithic":
		return p.processMonolithic(ctx, view)
	case "item_level":
		return p.processItemLevel(ctx, view)
	default:
		return fmt.Errorf("unknown job_type %q for job %d", job.JobType, job.ID)
	}
}

func (p *Processor) processItemLevel(ctx context.Context, view repo.MeetingView) error {
	start := time.Now()

	items, err := p.repo.ItemsNeedingSummary(ctx, view.ID)
	if err != nil {
		return err
	}

	pending, requests, err := p.prepareItemBatch(ctx, items)
	if err != nil {
		return err
	}

	switch len(pending) {
	case 0:
		// every item resolved without a live LLM call this pass
	case 1:
		// a single pending item gains nothing from a context cache or
		// chunking; run it through the plain interactive call instead
		// of standing up batch machinery for one request.
		if err := p.summarizeSingleItem(ctx, pending[0], requests[0]); err != nil {
			return err
		}
	default:
		if err := p.runItemBatch(ctx, pending, requests); err != nil {
			return err
		}
	}

	return p.repo.FinalizeItemLevelMeeting(ctx, view.ID, int(time.Since(start).Milliseconds()))
}

func (p *Processor) summarizeSingleItem(ctx context.Context, item repo.ItemView, req llmorch.ItemRequest) error {
	summary, err := p.orchestrator.SummarizeItem(ctx, req)
	if err != nil {
		p.logger.Warn("item summarization failed, continuing siblings", "item_id", item.ID, "error", err)
		return p.repo.MarkItemFailed(ctx, item.ID, err.Error())
	}
	return p.repo.SaveItemSummary(ctx, item.ID, item.MatterID, item.AttachmentHash, summary.SummaryMarkdown, summary.Topics)
}

// prepareItemBatch resolves the cheap, LLM-free outcomes for a meeting's
// items (no_attachments, matter_cache_hit) immediately, and returns the
// rest paired with the ItemRequest the LLM Orchestrator's batch mode
// needs for them (spec.md §4.5 steps 1-4).
func (p *Processor) prepareItemBatch(ctx context.Context, items []repo.ItemView) ([]repo.ItemView, []llmorch.ItemRequest, error) {
	var pending []repo.ItemView
	var requests []llmorch.ItemRequest

	for _, item := range items {
		if len(item.AttachmentURLs) == 0 {
			if err := p.repo.MarkItemNoAttachments(ctx, item.ID); err != nil {
				return nil, nil, err
			}
			continue
		}

		if item.MatterID != "" {
			hit, err := p.repo.MatterCacheHit(ctx, item.MatterID, item.AttachmentHash)
			if err != nil {
				return nil, nil, err
			}
			if hit.Found {
				if err := p.repo.ApplyMatterCacheHit(ctx, item.ID, hit.Summary, hit.Topics); err != nil {
					return nil, nil, err
				}
				continue
			}
		}

		text, pageCount, err := p.extractItemText(ctx, item.AttachmentURLs)
		if err != nil {
			p.logger.Warn("item extraction failed, continuing siblings", "item_id", item.ID, "error", err)
			if err := p.repo.MarkItemFailed(ctx, item.ID, err.Error()); err != nil {
				return nil, nil, err
			}
			continue
		}

		pending = append(pending, item)
		requests = append(requests, llmorch.ItemRequest{Title: item.Title, Text: text, PageCount: pageCount})
	}

	return pending, requests, nil
}

// runItemBatch submits a meeting's outstanding item requests to the LLM
// Orchestrator's batch mode (spec.md §4.5 step 4) and persists each
// chunk's results as they stream back. pending and requests are in
// lockstep with one another and with the chunk boundaries RunBatch
// yields, since BatchChunkResult.Count is set regardless of success.
func (p *Processor) runItemBatch(ctx context.Context, pending []repo.ItemView, requests []llmorch.ItemRequest) error {
	results := p.orchestrator.SummarizeItemsBatch(ctx, "", requests)

	idx := 0
	for chunk := range results {
		chunkItems := pending[idx : idx+chunk.Count]
		idx += chunk.Count

		if chunk.Err != nil {
			p.logger.Warn("batch chunk failed, marking items failed", "count", len(chunkItems), "error", chunk.Err)
			for _, item := range chunkItems {
				if err := p.repo.MarkItemFailed(ctx, item.ID, chunk.Err.Error()); err != nil {
					return err
				}
			}
			continue
		}

		for i, item := range chunkItems {
			summary := chunk.Items[i]
			if err := p.repo.SaveItemSummary(ctx, item.ID, item.MatterID, item.AttachmentHash, summary.SummaryMarkdown, summary.Topics); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Processor) extractItemText(ctx context.Context, urls []string) (string, int, error) {
	var combined strings.Builder
	totalPages := 0

	for _, url := range urls {
		start := time.Now()
		data, err := p.downloader.Download(ctx, url)
		if err != nil {
			return "", 0, err
		}

		hash := packetfetch.ContentHash(data)
		unchanged := p.contentUnchanged(ctx, url, hash, "llm_item")

		result, err := p.extractor.Extract(ctx, url, data)
		if err != nil {
			return "", 0, err
		}

		combined.WriteString(result.Text)
		combined.WriteString("\n")
		totalPages += result.PageCount

		if p.cache != nil && !unchanged {
			if err := p.cache.RecordProcessingCache(ctx, url, hash, "llm_item", int(time.Since(start).Milliseconds())); err != nil {
				p.logger.Warn("failed to record processing cache", "url", url, "error", err)
			}
		}
	}

	return combined.String(), totalPages, nil
}

// contentUnchanged reports whether url's just-downloaded content matches
// what the processing cache already has on record for the same method,
// bumping the cache's hit counter as a side effect of the lookup. The
// spec's ProcessingCache schema (content hash, method, elapsed time, hit
// counter, access timestamps — no cached text or summary) means the
// extraction and LLM call themselves cannot be skipped on a hit; what
// this buys is a correctness-meaningful "nothing to update" signal that
// avoids rewriting an unchanged row on every sync.
func (p *Processor) contentUnchanged(ctx context.Context, url, hash, method string) bool {
	if p.cache == nil {
		return false
	}
	hit, err := p.cache.GetProcessingCache(ctx, url)
	if err != nil {
		p.logger.Warn("failed to read processing cache", "url", url, "error", err)
		return false
	}
	return hit.Found && hit.ContentHash == hash && hit.Method == method
}

func (p *Processor) processMonolithic(ctx context.Context, view repo.MeetingView) error {
	start := time.Now()

	if view.PacketURL == "" {
		return p.repo.MarkMeetingFailed(ctx, view.ID)
	}

	data, err := p.downloader.Download(ctx, view.PacketURL)
	if err != nil {
		p.logger.Warn("monolithic packet download failed", "meeting_id", view.ID, "error", err)
		return p.repo.MarkMeetingFailed(ctx, view.ID)
	}

	hash := packetfetch.ContentHash(data)
	unchanged := p.contentUnchanged(ctx, view.PacketURL, hash, "monolithic")

	result, err := p.extractor.Extract(ctx, view.PacketURL, data)
	if err != nil {
		p.logger.Warn("monolithic packet extraction failed", "meeting_id", view.ID, "error", err)
		return p.repo.MarkMeetingFailed(ctx, view.ID)
	}

	summary, err := p.orchestrator.SummarizeMonolithic(ctx, result.Text, result.PageCount)
	if err != nil {
		p.logger.Warn("monolithic summarization failed", "meeting_id", view.ID, "error", err)
		return p.repo.MarkMeetingFailed(ctx, view.ID)
	}

	elapsedMS := int(time.Since(start).Milliseconds())
	if p.cache != nil && !unchanged {
		if err := p.cache.RecordProcessingCache(ctx, view.PacketURL, hash, "monolithic", elapsedMS); err != nil {
			p.logger.Warn("failed to record processing cache", "url", view.PacketURL, "error", err)
		}
	}

	return p.repo.FinalizeMonolithicMeeting(ctx, view.ID, summary, elapsedMS)
}
