package metatag

import (
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/textutil"
)

// TitleProcessor cleans song and album titles. Cleanup is conservative:
// surrounding and repeated whitespace is collapsed, nothing else is rewritten,
// so titles like "Bless em With The Blade (Orchestral Version)" pass through
// untouched.
type TitleProcessor struct{}

// NewTitleProcessor builds a title processor.
func NewTitleProcessor() *TitleProcessor {
	return &TitleProcessor{}
}

func (p *TitleProcessor) Name() string { return "title" }

func (p *TitleProcessor) Handles(id music.TagID) bool {
	switch id {
	case music.TagTitle, music.TagAlbum, music.TagAlbumArtist, music.TagArtist:
		return true
	default:
		return false
	}
}

func (p *TitleProcessor) Process(_, fileName string, tag music.Tag, _ []music.Tag) ([]music.Tag, services.Result) {
	cleaned := textutil.CollapseWhitespace(tag.Value)
	out := []music.Tag{{ID: tag.ID, Value: cleaned}}
	if cleaned == "" {
		err := services.Wrap(services.ErrValidation, "metatag", "title",
			"empty "+string(tag.ID)+" in "+fileName, nil)
		return out, services.Failed(err)
	}
	return out, services.Ok()
}
