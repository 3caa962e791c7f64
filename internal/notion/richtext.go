package notion

import (
	"strings"

	"github.com/google/uuid"
)

// RichTextType is the wire discriminator of a rich-text run.
type RichTextType string

const (
	RichTextText     RichTextType = "text"
	RichTextMention  RichTextType = "mention"
	RichTextEquation RichTextType = "equation"
)

// RichText is one inline run. The set of implementations is closed:
// *Text, *Mention and *InlineEquation.
type RichText interface {
	Base() RichTextBase
	Type() RichTextType
}

// RichTextBase holds the fields every run carries. PlainText is fixed at
// decode time.
type RichTextBase struct {
	PlainText   string
	Annotations Annotations
	Href        string
}

func (b RichTextBase) Base() RichTextBase { return b }

// Text is a plain run of characters, optionally linked.
type Text struct {
	RichTextBase
	Content string
	Link    string
}

func (*Text) Type() RichTextType { return RichTextText }

// MentionType is the discriminator inside a mention.
type MentionType string

const (
	MentionPage        MentionType = "page"
	MentionDatabase    MentionType = "database"
	MentionUser        MentionType = "user"
	MentionDate        MentionType = "date"
	MentionLinkPreview MentionType = "link_preview"
)

// Mention references another entity inline. ID is set for page, database
// and user mentions, Date for date mentions and URL for link previews.
type Mention struct {
	RichTextBase
	Kind MentionType
	ID   uuid.UUID
	Date *DateValue
	URL  string
}

func (*Mention) Type() RichTextType { return RichTextMention }

// InlineEquation is a TeX expression inside a run of text.
type InlineEquation struct {
	RichTextBase
	Expression string
}

func (*InlineEquation) Type() RichTextType { return RichTextEquation }

// PlainText concatenates the plain-text projections of runs.
func PlainText(runs []RichText) string {
	var sb strings.Builder
	for _, rt := range runs {
		sb.WriteString(rt.Base().PlainText)
	}
	return sb.String()
}

type richTextDecoder func(f fields, base RichTextBase) (RichText, error)

var richTextDecoders = map[RichTextType]richTextDecoder{
	RichTextText:     decodeText,
	RichTextMention:  decodeMention,
	RichTextEquation: decodeInlineEquation,
}

// DecodeRichText decodes a single rich-text record.
func DecodeRichText(rec Record) (RichText, error) {
	return decodeRichText(newFields(rec, ""))
}

// DecodeRichTexts decodes an array of rich-text records. Any failing element
// fails the whole array.
func DecodeRichTexts(items []any) ([]RichText, error) {
	return decodeRichTextItems(items, "")
}

func decodeRichTextItems(items []any, path string) ([]RichText, error) {
	runs := make([]RichText, 0, len(items))
	err := eachRecord(items, path, func(item fields) error {
		rt, err := decodeRichText(item)
		if err != nil {
			return err
		}
		runs = append(runs, rt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func decodeRichTextArray(f fields, name string) ([]RichText, error) {
	items, err := f.arr(name)
	if err != nil {
		return nil, err
	}
	return decodeRichTextItems(items, f.at(name))
}

// decodeBlockText reads a block's runs from "rich_text", or from "text" as
// written by older API versions.
func decodeBlockText(f fields) ([]RichText, error) {
	if !f.has("rich_text") && f.has("text") {
		return decodeRichTextArray(f, "text")
	}
	return decodeRichTextArray(f, "rich_text")
}

func decodeRichText(f fields) (RichText, error) {
	kind, err := f.str("type")
	if err != nil {
		return nil, err
	}
	decode, ok := richTextDecoders[RichTextType(kind)]
	if !ok {
		return nil, unknownVariant(f.at("type"), kind)
	}

	var base RichTextBase
	annotations, err := f.obj("annotations")
	if err != nil {
		return nil, err
	}
	if base.Annotations, err = decodeAnnotations(annotations); err != nil {
		return nil, err
	}
	if base.Href, err = f.optStr("href"); err != nil {
		return nil, err
	}
	if base.PlainText, err = f.optStr("plain_text"); err != nil {
		return nil, err
	}
	return decode(f, base)
}

func decodeText(f fields, base RichTextBase) (RichText, error) {
	payload, err := f.obj("text")
	if err != nil {
		return nil, err
	}
	t := &Text{RichTextBase: base}
	if t.Content, err = payload.str("content"); err != nil {
		return nil, err
	}
	if payload.has("link") {
		link, err := payload.obj("link")
		if err != nil {
			return nil, err
		}
		if t.Link, err = link.str("url"); err != nil {
			return nil, err
		}
	}
	if !f.has("plain_text") {
		t.PlainText = t.Content
	}
	return t, nil
}

func decodeMention(f fields, base RichTextBase) (RichText, error) {
	if !f.has("plain_text") {
		return nil, missingField(f.at("plain_text"))
	}
	payload, err := f.obj("mention")
	if err != nil {
		return nil, err
	}
	kind, err := payload.str("type")
	if err != nil {
		return nil, err
	}

	m := &Mention{RichTextBase: base, Kind: MentionType(kind)}
	switch m.Kind {
	case MentionPage, MentionDatabase, MentionUser:
		target, err := payload.obj(kind)
		if err != nil {
			return nil, err
		}
		if m.ID, err = target.id("id"); err != nil {
			return nil, err
		}
	case MentionDate:
		date, err := payload.obj(kind)
		if err != nil {
			return nil, err
		}
		if m.Date, err = decodeDateValue(date); err != nil {
			return nil, err
		}
	case MentionLinkPreview:
		preview, err := payload.obj(kind)
		if err != nil {
			return nil, err
		}
		if m.URL, err = preview.str("url"); err != nil {
			return nil, err
		}
	default:
		return nil, unknownVariant(payload.at("type"), kind)
	}
	return m, nil
}

func decodeInlineEquation(f fields, base RichTextBase) (RichText, error) {
	payload, err := f.obj("equation")
	if err != nil {
		return nil, err
	}
	eq := &InlineEquation{RichTextBase: base}
	if eq.Expression, err = payload.str("expression"); err != nil {
		return nil, err
	}
	if !f.has("plain_text") {
		eq.PlainText = eq.Expression
	}
	return eq, nil
}
