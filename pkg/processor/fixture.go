package processor

import (
	"context"

	"github.com/civicsync/ingest/pkg/repo"
)

// FixtureRepo is an in-memory Repo test double.
type FixtureRepo struct {
	Meetings map[string]repo.MeetingView
	Items    map[string][]repo.ItemView // by meeting id
	Matters  map[string]repo.MatterCacheHit

	ProcessingMarks []string
	AppliedCacheHit map[string]bool
	NoAttachments   map[string]bool
	SavedSummaries  map[string]string
	FailedItems     map[string]string
	FinalizedItem   map[string]int
	FinalizedMono   map[string]string
	FailedMeetings  map[string]bool
}

// NewFixtureRepo returns an empty FixtureRepo.
func NewFixtureRepo() *FixtureRepo {
	return &FixtureRepo{
		Meetings:        make(map[string]repo.MeetingView),
		Items:           make(map[string][]repo.ItemView),
		Matters:         make(map[string]repo.MatterCacheHit),
		AppliedCacheHit: make(map[string]bool),
		NoAttachments:   make(map[string]bool),
		SavedSummaries:  make(map[string]string),
		FailedItems:     make(map[string]string),
		FinalizedItem:   make(map[string]int),
		FinalizedMono:   make(map[string]string),
		FailedMeetings:  make(map[string]bool),
	}
}

func (f *FixtureRepo) MeetingForProcessing(_ context.Context, meetingID string) (repo.MeetingView, error) {
	return f.Meetings[meetingID], nil
}

func (f *FixtureRepo) MarkMeetingProcessing(_ context.Context, meetingID string) error {
	f.ProcessingMarks = append(f.ProcessingMarks, meetingID)
	return nil
}

func (f *FixtureRepo) ItemsNeedingSummary(_ context.Context, meetingID string) ([]repo.ItemView, error) {
	return f.Items[meetingID], nil
}

func (f *FixtureRepo) MatterCacheHit(_ context.Context, matterID, _ string) (repo.MatterCacheHit, error) {
	return f.Matters[matterID], nil
}

func (f *FixtureRepo) ApplyMatterCacheHit(_ context.Context, itemID, summary string, _ []string) error {
	f.AppliedCacheHit[itemID] = true
	f.SavedSummaries[itemID] = summary
	return nil
}

func (f *FixtureRepo) MarkItemNoAttachments(_ context.Context, itemID string) error {
	f.NoAttachments[itemID] = true
	return nil
}

func (f *FixtureRepo) SaveItemSummary(_ context.Context, itemID, _, _, summary string, _ []string) error {
	f.SavedSummaries[itemID] = summary
	return nil
}

func (f *FixtureRepo) MarkItemFailed(_ context.Context, itemID, errMsg string) error {
	f.FailedItems[itemID] = errMsg
	return nil
}

func (f *FixtureRepo) FinalizeItemLevelMeeting(_ context.Context, meetingID string, elapsedMS int) error {
	f.FinalizedItem[meetingID] = elapsedMS
	return nil
}

func (f *FixtureRepo) FinalizeMonolithicMeeting(_ context.Context, meetingID, summary string, _ int) error {
	f.FinalizedMono[meetingID] = summary
	return nil
}

func (f *FixtureRepo) MarkMeetingFailed(_ context.Context, meetingID string) error {
	f.FailedMeetings[meetingID] = true
	return nil
}

// FixtureDownloader returns configured bytes or errors per URL.
type FixtureDownloader struct {
	Bytes map[string][]byte
	Err   map[string]error
	Calls []string
}

func NewFixtureDownloader() *FixtureDownloader {
	return &FixtureDownloader{Bytes: make(map[string][]byte), Err: make(map[string]error)}
}

func (f *FixtureDownloader) Download(_ context.Context, url string) ([]byte, error) {
	f.Calls = append(f.Calls, url)
	if err, ok := f.Err[url]; ok {
		return nil, err
	}
	return f.Bytes[url], nil
}
