package metatag

import (
	"testing"

	"aria/internal/logging"
	"aria/internal/music"
	"aria/internal/services"
)

func TestTitleProcessorCollapsesWhitespace(t *testing.T) {
	p := NewTitleProcessor()
	tags, result := p.Process("/d", "f.flac", music.Tag{ID: music.TagTitle, Value: "Flowers   (DEMO)"}, nil)
	if !result.IsOk() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if tags[0].Value != "Flowers (DEMO)" {
		t.Fatalf("unexpected value %q", tags[0].Value)
	}
}

func TestTitleProcessorLeavesCleanTitleAlone(t *testing.T) {
	p := NewTitleProcessor()
	title := "Bless em With The Blade (Orchestral Version)"
	tags, result := p.Process("/d", "f.flac", music.Tag{ID: music.TagTitle, Value: title}, nil)
	if !result.IsOk() || tags[0].Value != title {
		t.Fatalf("clean title altered: %q", tags[0].Value)
	}
}

func TestTitleProcessorRejectsEmpty(t *testing.T) {
	p := NewTitleProcessor()
	_, result := p.Process("/d", "f.flac", music.Tag{ID: music.TagTitle, Value: "   "}, nil)
	if result.Outcome != services.OutcomeError {
		t.Fatal("expected error outcome for empty title")
	}
}

func TestChainAppliesProcessorsWithProvenance(t *testing.T) {
	chain := NewChain(logging.NewNop(),
		NewTitleProcessor(),
		NewYearProcessor(testPolicy()),
	)

	tags := music.SetTagValue(nil, music.TagTitle, "Song   Title", "")
	tags = music.SetTagValue(tags, music.TagRecordingYear, "2001-01-01", "")

	out, messages := chain.Apply("/music/album", "01.flac", tags)
	if len(messages) != 0 {
		t.Fatalf("unexpected messages %v", messages)
	}

	title, _ := music.FindTag(out, music.TagTitle)
	if title.Value != "Song Title" || title.OriginalValue != "Song   Title" {
		t.Fatalf("title not normalized with original kept: %+v", title)
	}
	if len(title.ProcessedBy) != 1 || title.ProcessedBy[0] != "title" {
		t.Fatalf("missing provenance: %v", title.ProcessedBy)
	}

	year, _ := music.FindTag(out, music.TagRecordingYear)
	if year.Value != "2001" {
		t.Fatalf("year not normalized: %+v", year)
	}
}

func TestChainCollectsFailuresWithoutAborting(t *testing.T) {
	chain := NewChain(logging.NewNop(), NewYearProcessor(testPolicy()))

	tags := music.SetTagValue(nil, music.TagRecordingYear, "garbage", "")
	tags = music.SetTagValue(tags, music.TagAlbum, "Fine Album", "")

	out, messages := chain.Apply("/music/album", "01.flac", tags)
	if len(messages) != 1 {
		t.Fatalf("expected one failure message, got %v", messages)
	}
	if music.TagValue(out, music.TagAlbum) != "Fine Album" {
		t.Fatal("unrelated tag disturbed")
	}
}
